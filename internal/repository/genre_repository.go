package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"movie-discovery-bff/internal/models"
)

// GenreRepository handles genres and per-profile genre preferences.
type GenreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a new GenreRepository.
func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func preferenceTable(kind models.MediaKind) string {
	if kind == models.MediaTV {
		return "tv_genre_preferences"
	}
	return "movie_genre_preferences"
}

// List returns genres of the given kinds ordered by name.
func (r *GenreRepository) List(ctx context.Context, kinds []string) ([]models.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, external_id, name, kind FROM genres
		WHERE kind = ANY($1)
		ORDER BY name ASC
	`, pq.Array(kinds))
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	return scanGenres(rows)
}

// CountApplicable counts how many of ids exist with one of kinds.
func (r *GenreRepository) CountApplicable(ctx context.Context, ids []int, kinds []string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM genres
		WHERE id = ANY($1) AND kind = ANY($2)
	`, pq.Array(ids), pq.Array(kinds)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count genres: %w", err)
	}
	return n, nil
}

// ReplacePreferences swaps a profile's preference set for kind with ids in
// one transaction, so readers never observe a half-replaced set.
func (r *GenreRepository) ReplacePreferences(ctx context.Context, profileID string, kind models.MediaKind, ids []int) (int, error) {
	table := preferenceTable(kind)
	var inserted int64

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE profile_id = $1`, profileID); err != nil {
			return fmt.Errorf("failed to clear preferences: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO `+table+` (profile_id, genre_id)
			SELECT $1, UNNEST($2::int[])
			ON CONFLICT DO NOTHING
		`, profileID, pq.Array(ids))
		if err != nil {
			return fmt.Errorf("failed to insert preferences: %w", err)
		}
		if inserted, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to count inserted preferences: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(inserted), nil
}

// PreferredGenres returns the genres a profile selected for kind.
func (r *GenreRepository) PreferredGenres(ctx context.Context, profileID string, kind models.MediaKind) ([]models.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.external_id, g.name, g.kind
		FROM genres g
		INNER JOIN `+preferenceTable(kind)+` p ON p.genre_id = g.id
		WHERE p.profile_id = $1
		ORDER BY g.external_id ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	return scanGenres(rows)
}

// UpsertGenres inserts or renames genres keyed by external id.
func (r *GenreRepository) UpsertGenres(ctx context.Context, genres []models.Genre) (int, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO genres (external_id, name, kind)
			VALUES ($1, $2, $3)
			ON CONFLICT (external_id) DO UPDATE SET name = EXCLUDED.name, kind = EXCLUDED.kind
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare genre upsert: %w", err)
		}
		defer stmt.Close()

		for _, g := range genres {
			if _, err := stmt.ExecContext(ctx, g.ExternalID, g.Name, string(g.Kind)); err != nil {
				return fmt.Errorf("failed to upsert genre %q: %w", g.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(genres), nil
}

func scanGenres(rows *sql.Rows) ([]models.Genre, error) {
	defer rows.Close()

	genres := make([]models.Genre, 0)
	for rows.Next() {
		var g models.Genre
		var kind string
		if err := rows.Scan(&g.ID, &g.ExternalID, &g.Name, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		g.Kind = models.GenreKind(kind)
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
