package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-bff/internal/models"
)

// GenreHandler serves the genre catalog.
type GenreHandler struct {
	genres GenreService
}

// NewGenreHandler creates a new GenreHandler.
func NewGenreHandler(genres GenreService) *GenreHandler {
	return &GenreHandler{genres: genres}
}

// MovieGenres lists genres applicable to movies.
// @Summary Movie genres
// @Tags genres
// @Produce json
// @Success 200 {array} models.Genre
// @Router /genres/movies [get]
func (h *GenreHandler) MovieGenres(c fiber.Ctx) error {
	return h.list(c, models.MediaMovie)
}

// TVGenres lists genres applicable to TV shows.
// @Summary TV genres
// @Tags genres
// @Produce json
// @Success 200 {array} models.Genre
// @Router /genres/tv [get]
func (h *GenreHandler) TVGenres(c fiber.Ctx) error {
	return h.list(c, models.MediaTV)
}

func (h *GenreHandler) list(c fiber.Ctx, kind models.MediaKind) error {
	genres, err := h.genres.List(c.Context(), kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(genres)
}

// Sync refreshes the genre table from TMDB.
// @Summary Sync genres from TMDB
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} ErrorResponse
// @Router /admin/genres/sync [post]
func (h *GenreHandler) Sync(c fiber.Ctx) error {
	count, err := h.genres.Sync(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "sync completed",
		"genres_synced": count,
	})
}
