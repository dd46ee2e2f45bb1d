package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"golang.org/x/sync/errgroup"

	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/tmdb"
)

// GenreStore is the genre and preference persistence used by GenreService.
type GenreStore interface {
	List(ctx context.Context, kinds []string) ([]models.Genre, error)
	CountApplicable(ctx context.Context, ids []int, kinds []string) (int, error)
	ReplacePreferences(ctx context.Context, profileID string, kind models.MediaKind, ids []int) (int, error)
	PreferredGenres(ctx context.Context, profileID string, kind models.MediaKind) ([]models.Genre, error)
	UpsertGenres(ctx context.Context, genres []models.Genre) (int, error)
}

// GenreService lists genres, stores per-profile preferences and syncs the
// genre table from the provider.
type GenreService struct {
	genres GenreStore
	client CatalogClient
	cache  *ResponseCache
}

// NewGenreService creates a new GenreService.
func NewGenreService(genres GenreStore, client CatalogClient, cache *ResponseCache) *GenreService {
	return &GenreService{genres: genres, client: client, cache: cache}
}

func genreListKey(kind models.MediaKind) string { return "genres:" + string(kind) }

// List returns the genres applicable to kind, alphabetically.
func (s *GenreService) List(ctx context.Context, kind models.MediaKind) ([]models.Genre, error) {
	data, err := s.cache.Fetch(ctx, genreListKey(kind), func() ([]byte, error) {
		genres, err := s.genres.List(ctx, kind.GenreKinds())
		if err != nil {
			return nil, err
		}
		return json.Marshal(genres)
	})
	if err != nil {
		return nil, internalError("Failed to fetch genres", err)
	}

	var genres []models.Genre
	if err := json.Unmarshal(data, &genres); err != nil {
		return nil, internalError("Failed to fetch genres", err)
	}
	return genres, nil
}

// SetPreferences replaces the profile's preference set for kind with ids.
// Every id must name an existing genre applicable to kind; an empty list
// clears the set.
func (s *GenreService) SetPreferences(ctx context.Context, profileID string, kind models.MediaKind, ids []int) (int, error) {
	unique := dedupeIDs(ids)
	for _, id := range unique {
		if id <= 0 {
			return 0, validationError("Genre ids must be positive integers")
		}
	}

	if len(unique) > 0 {
		n, err := s.genres.CountApplicable(ctx, unique, kind.GenreKinds())
		if err != nil {
			return 0, internalError("Failed to save genres", err)
		}
		if n != len(unique) {
			return 0, validationError("One or more genre ids are invalid")
		}
	}

	count, err := s.genres.ReplacePreferences(ctx, profileID, kind, unique)
	if err != nil {
		return 0, internalError("Failed to save genres", err)
	}
	slog.Info("genre preferences replaced", "profile_id", profileID, "kind", kind, "count", count)
	return count, nil
}

// Preferences returns the selected genre ids of a profile for both kinds.
func (s *GenreService) Preferences(ctx context.Context, profileID string) (*models.ProfileGenres, error) {
	var out models.ProfileGenres
	for _, k := range []struct {
		kind models.MediaKind
		dst  *[]int
	}{
		{models.MediaMovie, &out.MovieGenreIDs},
		{models.MediaTV, &out.TVGenreIDs},
	} {
		genres, err := s.genres.PreferredGenres(ctx, profileID, k.kind)
		if err != nil {
			return nil, internalError("Failed to fetch genres", err)
		}
		ids := make([]int, 0, len(genres))
		for _, g := range genres {
			ids = append(ids, g.ID)
		}
		*k.dst = ids
	}
	return &out, nil
}

// Sync fetches the provider's movie and TV genre lists, merges them by
// external id and upserts the result.
func (s *GenreService) Sync(ctx context.Context) (int, error) {
	var movie, tv tmdb.GenreList

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return fetchJSON(gctx, s.client, "/genre/movie/list", nil, &movie) })
	g.Go(func() error { return fetchJSON(gctx, s.client, "/genre/tv/list", nil, &tv) })
	if err := g.Wait(); err != nil {
		return 0, upstreamError("Failed to fetch genres from provider", err)
	}

	merged := MergeGenres(movie.Genres, tv.Genres)
	n, err := s.genres.UpsertGenres(ctx, merged)
	if err != nil {
		return 0, internalError("Failed to store genres", err)
	}
	s.cache.Invalidate(ctx, genreListKey(models.MediaMovie), genreListKey(models.MediaTV))

	slog.Info("genres synced", "count", n, "movie", len(movie.Genres), "tv", len(tv.Genres))
	return n, nil
}

// MergeGenres combines movie and TV genre lists: ids present in both become
// BOTH. The result is ordered by external id.
func MergeGenres(movie, tv []tmdb.Genre) []models.Genre {
	byID := make(map[int]*models.Genre, len(movie)+len(tv))
	for _, g := range movie {
		byID[g.ID] = &models.Genre{ExternalID: g.ID, Name: g.Name, Kind: models.GenreKindMovie}
	}
	for _, g := range tv {
		if existing, ok := byID[g.ID]; ok {
			existing.Kind = models.GenreKindBoth
			continue
		}
		byID[g.ID] = &models.Genre{ExternalID: g.ID, Name: g.Name, Kind: models.GenreKindTV}
	}

	merged := make([]models.Genre, 0, len(byID))
	for _, g := range byID {
		merged = append(merged, *g)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ExternalID < merged[j].ExternalID })
	return merged
}

func dedupeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func fetchJSON(ctx context.Context, client CatalogClient, path string, query url.Values, out any) error {
	raw, err := client.Fetch(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
