package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-bff/internal/middleware"
	"movie-discovery-bff/internal/models"
)

// ProfileHandler handles profiles and their genre preferences.
type ProfileHandler struct {
	profiles ProfileService
	genres   GenreService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles ProfileService, genres GenreService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, genres: genres}
}

// List returns the account's profiles.
// @Summary List profiles
// @Tags profiles
// @Produce json
// @Success 200 {object} map[string][]models.Profile
// @Router /profiles [get]
func (h *ProfileHandler) List(c fiber.Ctx) error {
	profiles, err := h.profiles.List(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return c.JSON(fiber.Map{"profiles": profiles})
}

// Create adds a profile.
// @Summary Create profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body models.CreateProfileRequest true "Profile"
// @Success 201 {object} map[string]models.Profile
// @Failure 400 {object} ErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) Create(c fiber.Ctx) error {
	var req models.CreateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	profile, err := h.profiles.Create(c.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"profile": profile})
}

// Update changes a profile.
// @Summary Update profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param body body models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} map[string]models.Profile
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{id} [put]
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	profile, err := h.profiles.Update(c.Context(), middleware.CurrentUser(c).ID, c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// Delete removes a profile.
// @Summary Delete profile
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{id} [delete]
func (h *ProfileHandler) Delete(c fiber.Ctx) error {
	if err := h.profiles.Delete(c.Context(), middleware.CurrentUser(c).ID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile deleted successfully"})
}

// SetMovieGenres replaces the profile's movie genre preferences.
// @Summary Set movie genres
// @Tags genres
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param body body models.SetGenresRequest true "Genre ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /profiles/{id}/movie-genres [post]
func (h *ProfileHandler) SetMovieGenres(c fiber.Ctx) error {
	return h.setGenres(c, models.MediaMovie, "Movie genres saved successfully")
}

// SetTVGenres replaces the profile's TV genre preferences.
// @Summary Set TV genres
// @Tags genres
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param body body models.SetGenresRequest true "Genre ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /profiles/{id}/tv-genres [post]
func (h *ProfileHandler) SetTVGenres(c fiber.Ctx) error {
	return h.setGenres(c, models.MediaTV, "TV genres saved successfully")
}

func (h *ProfileHandler) setGenres(c fiber.Ctx, kind models.MediaKind, message string) error {
	var req models.SetGenresRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "genreIds must be an array of integers")
	}

	profile, err := h.profiles.Owned(c.Context(), middleware.CurrentUser(c).ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	count, err := h.genres.SetPreferences(c.Context(), profile.ID, kind, req.GenreIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": message, "count": count})
}

// Genres returns the profile's selected genre ids.
// @Summary Profile genres
// @Tags genres
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.ProfileGenres
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{id}/genres [get]
func (h *ProfileHandler) Genres(c fiber.Ctx) error {
	profile, err := h.profiles.Owned(c.Context(), middleware.CurrentUser(c).ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	prefs, err := h.genres.Preferences(c.Context(), profile.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prefs)
}
