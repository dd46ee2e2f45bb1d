package repository

import (
	"context"
	"database/sql"
	"fmt"

	"movie-discovery-bff/internal/models"
)

// WatchRepository handles watch history and continue-watching pointers.
type WatchRepository struct {
	db *sql.DB
}

// NewWatchRepository creates a new WatchRepository.
func NewWatchRepository(db *sql.DB) *WatchRepository {
	return &WatchRepository{db: db}
}

// RecordWatch appends a history row and upserts the continue-watching row
// for the same (profile, title) in one transaction. Exactly one of movieID
// and episodeID is expected to be set.
func (r *WatchRepository) RecordWatch(ctx context.Context, profileID, movieID, episodeID string, progress float64) error {
	upsert := `
		INSERT INTO continue_watching (profile_id, movie_id, episode_id, progress, last_watched_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (profile_id, movie_id) WHERE movie_id IS NOT NULL
		DO UPDATE SET progress = EXCLUDED.progress, last_watched_at = EXCLUDED.last_watched_at
	`
	if movieID == "" {
		upsert = `
		INSERT INTO continue_watching (profile_id, movie_id, episode_id, progress, last_watched_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (profile_id, episode_id) WHERE episode_id IS NOT NULL
		DO UPDATE SET progress = EXCLUDED.progress, last_watched_at = EXCLUDED.last_watched_at
	`
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO watch_history (profile_id, movie_id, episode_id, watched_at)
			VALUES ($1, $2, $3, NOW())
		`, profileID, nullableString(movieID), nullableString(episodeID)); err != nil {
			return fmt.Errorf("failed to append watch history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsert,
			profileID, nullableString(movieID), nullableString(episodeID), progress,
		); err != nil {
			return fmt.Errorf("failed to upsert continue watching: %w", err)
		}
		return nil
	})
}

// ListContinueWatching returns the most recently watched titles first.
func (r *WatchRepository) ListContinueWatching(ctx context.Context, profileID string, limit int) ([]models.ContinueWatching, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profile_id, movie_id, episode_id, progress, last_watched_at
		FROM continue_watching
		WHERE profile_id = $1
		ORDER BY last_watched_at DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query continue watching: %w", err)
	}
	defer rows.Close()

	entries := make([]models.ContinueWatching, 0)
	for rows.Next() {
		var e models.ContinueWatching
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.MovieID, &e.EpisodeID, &e.Progress, &e.LastWatchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan continue watching row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
