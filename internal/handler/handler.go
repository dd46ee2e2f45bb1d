package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/service"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthService is the account login surface.
type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Signin(ctx context.Context, req models.SigninRequest) (*models.AuthResponse, error)
	GoogleLogin(ctx context.Context, req models.GoogleLoginRequest) (*models.AuthResponse, error)
}

// UserService reads the current account.
type UserService interface {
	Me(ctx context.Context, userID string) (*models.User, error)
}

// ProfileService manages profiles of the current account.
type ProfileService interface {
	List(ctx context.Context, userID string) ([]models.Profile, error)
	Create(ctx context.Context, userID string, req models.CreateProfileRequest) (*models.Profile, error)
	Update(ctx context.Context, userID, profileID string, req models.UpdateProfileRequest) (*models.Profile, error)
	Delete(ctx context.Context, userID, profileID string) error
	Owned(ctx context.Context, userID, profileID string) (*models.Profile, error)
}

// GenreService lists genres and stores genre preferences.
type GenreService interface {
	List(ctx context.Context, kind models.MediaKind) ([]models.Genre, error)
	SetPreferences(ctx context.Context, profileID string, kind models.MediaKind, ids []int) (int, error)
	Preferences(ctx context.Context, profileID string) (*models.ProfileGenres, error)
	Sync(ctx context.Context) (int, error)
}

// DiscoveryService serves catalog data from the metadata provider.
type DiscoveryService interface {
	Details(ctx context.Context, kind, id string) (*models.ContentDetail, error)
	Hero(ctx context.Context) (json.RawMessage, error)
	TopRated(ctx context.Context, kind string, page int) (json.RawMessage, error)
	DiscoverForProfile(ctx context.Context, profile *models.Profile, kind models.MediaKind, page int) (models.DiscoverResult, error)
	Trending(ctx context.Context, mediaType, window string) (json.RawMessage, error)
	Trailer(ctx context.Context, kind, id string) (*models.Trailer, error)
}

// WatchService tracks playback progress.
type WatchService interface {
	RecordWatch(ctx context.Context, profileID string, req models.WatchRequest) error
	ContinueWatching(ctx context.Context, profileID string, limit int) ([]models.ContinueWatching, error)
}

// UploadService issues presigned upload URLs.
type UploadService interface {
	UploadURL(ctx context.Context, req models.UploadURLRequest) (*models.UploadURLResponse, error)
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-discovery-bff",
	})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return fiber.StatusBadRequest
	case service.KindUnauthorized:
		return fiber.StatusUnauthorized
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindUpstream:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. Only classified messages reach
// the client; causes are logged.
func respondError(c fiber.Ctx, err error) error {
	status := statusFor(service.KindOf(err))
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(ErrorResponse{
		Error: service.PublicMessage(err, "internal server error"),
	})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

// ErrorHandler is the app-level fallback for errors returned by handlers and
// middleware, including fiber's own (unknown route, bad method).
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}
	return respondError(c, err)
}
