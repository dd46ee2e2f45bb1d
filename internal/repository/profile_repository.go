package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"movie-discovery-bff/internal/models"
)

const profileColumns = `id, user_id, name, avatar_key, is_kid, created_at`

// ProfileRepository handles database operations for viewer profiles.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ListByUser returns a user's profiles, oldest first.
func (r *ProfileRepository) ListByUser(ctx context.Context, userID string) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+` FROM profiles
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.AvatarKey, &p.IsKid, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Create inserts a profile for userID.
func (r *ProfileRepository) Create(ctx context.Context, userID string, req models.CreateProfileRequest) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, user_id, name, avatar_key, is_kid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+profileColumns,
		uuid.NewString(), userID, req.Name, req.AvatarKey, req.IsKid,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.AvatarKey, &p.IsKid, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &p, nil
}

// FindByID returns a profile by id.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.UserID, &p.Name, &p.AvatarKey, &p.IsKid, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Update writes name, avatar and kid flag of p.
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET name = $1, avatar_key = $2, is_kid = $3
		WHERE id = $4
	`, p.Name, p.AvatarKey, p.IsKid, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a profile; preferences and watch data cascade.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
