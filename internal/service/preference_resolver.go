package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"movie-discovery-bff/internal/models"
)

// PreferenceReader loads the genres a profile selected for a media kind.
type PreferenceReader interface {
	PreferredGenres(ctx context.Context, profileID string, kind models.MediaKind) ([]models.Genre, error)
}

// PreferenceResolver turns stored genre preferences into the provider's
// with_genres filter.
type PreferenceResolver struct {
	prefs PreferenceReader
}

// NewPreferenceResolver creates a new PreferenceResolver.
func NewPreferenceResolver(prefs PreferenceReader) *PreferenceResolver {
	return &PreferenceResolver{prefs: prefs}
}

// Resolve returns the profile's preferred external genre ids for kind,
// ascending and comma-joined. It returns ErrNoPreferences when none are set.
func (r *PreferenceResolver) Resolve(ctx context.Context, profileID string, kind models.MediaKind) (string, error) {
	if _, ok := models.ParseMediaKind(string(kind)); !ok {
		return "", validationError(`Invalid type. Use "movie" or "tv"`)
	}

	genres, err := r.prefs.PreferredGenres(ctx, profileID, kind)
	if err != nil {
		return "", internalError("Failed to load genre preferences", err)
	}

	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		if g.ExternalID > 0 {
			ids = append(ids, g.ExternalID)
		}
	}
	if len(ids) == 0 {
		return "", ErrNoPreferences
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ","), nil
}
