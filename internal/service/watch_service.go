package service

import (
	"context"
	"math"
	"strings"

	"movie-discovery-bff/internal/models"
)

const (
	defaultContinueWatchingLimit = 20
	maxContinueWatchingLimit     = 100
)

// WatchStore persists watch events.
type WatchStore interface {
	RecordWatch(ctx context.Context, profileID, movieID, episodeID string, progress float64) error
	ListContinueWatching(ctx context.Context, profileID string, limit int) ([]models.ContinueWatching, error)
}

// WatchService tracks playback progress per profile.
type WatchService struct {
	watches WatchStore
}

// NewWatchService creates a new WatchService.
func NewWatchService(watches WatchStore) *WatchService {
	return &WatchService{watches: watches}
}

// RecordWatch appends a history entry and moves the profile's
// continue-watching pointer for the title to the reported progress.
func (s *WatchService) RecordWatch(ctx context.Context, profileID string, req models.WatchRequest) error {
	movieID := strings.TrimSpace(req.MovieID)
	episodeID := strings.TrimSpace(req.EpisodeID)

	switch {
	case movieID == "" && episodeID == "":
		return validationError("Either movieId or episodeId is required")
	case movieID != "" && episodeID != "":
		return validationError("Provide only one of movieId or episodeId")
	}
	if math.IsNaN(req.Progress) || math.IsInf(req.Progress, 0) || req.Progress < 0 {
		return validationError("Progress must be a non-negative number")
	}

	if err := s.watches.RecordWatch(ctx, profileID, movieID, episodeID, req.Progress); err != nil {
		return internalError("Failed to record watch", err)
	}
	return nil
}

// ContinueWatching lists the profile's in-progress titles, most recent first.
// limit is clamped to [1, 100]; zero or less means the default of 20.
func (s *WatchService) ContinueWatching(ctx context.Context, profileID string, limit int) ([]models.ContinueWatching, error) {
	switch {
	case limit <= 0:
		limit = defaultContinueWatchingLimit
	case limit > maxContinueWatchingLimit:
		limit = maxContinueWatchingLimit
	}

	entries, err := s.watches.ListContinueWatching(ctx, profileID, limit)
	if err != nil {
		return nil, internalError("Failed to fetch continue watching", err)
	}
	return entries, nil
}
