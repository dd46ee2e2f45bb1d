package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-bff/internal/middleware"
	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/service"
)

// BrowseHandler serves catalog browsing and watch progress.
type BrowseHandler struct {
	discovery DiscoveryService
	profiles  ProfileService
	watch     WatchService
}

// NewBrowseHandler creates a new BrowseHandler.
func NewBrowseHandler(discovery DiscoveryService, profiles ProfileService, watch WatchService) *BrowseHandler {
	return &BrowseHandler{discovery: discovery, profiles: profiles, watch: watch}
}

// Details returns a normalized movie or show.
// @Summary Content details
// @Tags browse
// @Produce json
// @Param type path string true "Media type" Enums(movie,tv)
// @Param id path int true "TMDB ID"
// @Success 200 {object} models.ContentDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /browse/details/{type}/{id} [get]
func (h *BrowseHandler) Details(c fiber.Ctx) error {
	detail, err := h.discovery.Details(c.Context(), c.Params("type"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// Hero returns the featured title.
// @Summary Hero title
// @Tags browse
// @Produce json
// @Param profileId path string true "Profile ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /browse/hero/{profileId} [get]
func (h *BrowseHandler) Hero(c fiber.Ctx) error {
	hero, err := h.discovery.Hero(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return sendRaw(c, hero)
}

// TopRated returns a page of top rated titles.
// @Summary Top rated
// @Tags browse
// @Produce json
// @Param type path string true "Media type" Enums(movie,tv)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} map[string]interface{}
// @Router /browse/top-rated/{type} [get]
func (h *BrowseHandler) TopRated(c fiber.Ctx) error {
	page := service.NormalizePage(c.Query("page"))
	raw, err := h.discovery.TopRated(c.Context(), c.Params("type"), page)
	if err != nil {
		return respondError(c, err)
	}
	return sendRaw(c, raw)
}

// Movies discovers movies matching the profile's genres.
// @Summary Movies for profile
// @Tags browse
// @Produce json
// @Param profileId path string true "Profile ID"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} map[string]interface{}
// @Router /browse/movie/{profileId} [get]
func (h *BrowseHandler) Movies(c fiber.Ctx) error {
	return h.discover(c, models.MediaMovie)
}

// Shows discovers TV shows matching the profile's genres.
// @Summary TV shows for profile
// @Tags browse
// @Produce json
// @Param profileId path string true "Profile ID"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} map[string]interface{}
// @Router /browse/tv/{profileId} [get]
func (h *BrowseHandler) Shows(c fiber.Ctx) error {
	return h.discover(c, models.MediaTV)
}

func (h *BrowseHandler) discover(c fiber.Ctx, kind models.MediaKind) error {
	profile, err := h.profiles.Owned(c.Context(), middleware.CurrentUser(c).ID, c.Params("profileId"))
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.discovery.DiscoverForProfile(c.Context(), profile, kind, service.NormalizePage(c.Query("page")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Trending returns trending titles.
// @Summary Trending
// @Tags browse
// @Produce json
// @Param media_type query string false "Media type" Enums(all,movie,tv,person) default(all)
// @Param time_window query string false "Window" Enums(day,week) default(day)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /browse/trending [get]
func (h *BrowseHandler) Trending(c fiber.Ctx) error {
	raw, err := h.discovery.Trending(c.Context(), c.Query("media_type", "all"), c.Query("time_window", "day"))
	if err != nil {
		return respondError(c, err)
	}
	return sendRaw(c, raw)
}

// RecordWatch stores playback progress for a profile.
// @Summary Record watch
// @Tags browse
// @Accept json
// @Produce json
// @Param profileId path string true "Profile ID"
// @Param body body models.WatchRequest true "Progress"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /browse/watch/{profileId} [post]
func (h *BrowseHandler) RecordWatch(c fiber.Ctx) error {
	var req models.WatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	profile, err := h.profiles.Owned(c.Context(), middleware.CurrentUser(c).ID, c.Params("profileId"))
	if err != nil {
		return respondError(c, err)
	}

	if err := h.watch.RecordWatch(c.Context(), profile.ID, req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Watch progress saved"})
}

// ContinueWatching lists in-progress titles of a profile.
// @Summary Continue watching
// @Tags browse
// @Produce json
// @Param profileId path string true "Profile ID"
// @Param limit query int false "Max entries" default(20)
// @Success 200 {object} map[string][]models.ContinueWatching
// @Router /browse/continue-watching/{profileId} [get]
func (h *BrowseHandler) ContinueWatching(c fiber.Ctx) error {
	profile, err := h.profiles.Owned(c.Context(), middleware.CurrentUser(c).ID, c.Params("profileId"))
	if err != nil {
		return respondError(c, err)
	}

	entries, err := h.watch.ContinueWatching(c.Context(), profile.ID, fiber.Query(c, "limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	if entries == nil {
		entries = []models.ContinueWatching{}
	}
	return c.JSON(fiber.Map{"results": entries})
}

// Trailer returns the best trailer for a title.
// @Summary Trailer
// @Tags video
// @Produce json
// @Param type path string true "Media type" Enums(movie,tv)
// @Param id path int true "TMDB ID"
// @Success 200 {object} models.Trailer
// @Failure 404 {object} ErrorResponse
// @Router /video/details/{type}/{id}/trailer [get]
func (h *BrowseHandler) Trailer(c fiber.Ctx) error {
	trailer, err := h.discovery.Trailer(c.Context(), c.Params("type"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trailer)
}

func sendRaw(c fiber.Ctx, raw []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
