package models

import "time"

// WatchRequest records playback of exactly one of a movie or an episode.
type WatchRequest struct {
	MovieID   string  `json:"movieId"`
	EpisodeID string  `json:"episodeId"`
	Progress  float64 `json:"progress"`
}

// ContinueWatching is the latest progress pointer for one title of one profile.
type ContinueWatching struct {
	ID            int64     `json:"id"`
	ProfileID     string    `json:"profileId"`
	MovieID       *string   `json:"movieId"`
	EpisodeID     *string   `json:"episodeId"`
	Progress      float64   `json:"progress"`
	LastWatchedAt time.Time `json:"lastWatchedAt"`
}
