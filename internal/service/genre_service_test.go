package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/tmdb"
)

func seededGenres() *fakeGenres {
	return newFakeGenres(
		models.Genre{ID: 1, ExternalID: 28, Name: "Action", Kind: models.GenreKindMovie},
		models.Genre{ID: 2, ExternalID: 35, Name: "Comedy", Kind: models.GenreKindBoth},
		models.Genre{ID: 3, ExternalID: 18, Name: "Drama", Kind: models.GenreKindBoth},
		models.Genre{ID: 4, ExternalID: 10759, Name: "Action & Adventure", Kind: models.GenreKindTV},
	)
}

func newTestCache(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewResponseCache(rdb, time.Minute), mr
}

func TestGenreListAlphabeticalAndCached(t *testing.T) {
	store := seededGenres()
	cache, _ := newTestCache(t)
	svc := NewGenreService(store, newFakeCatalog(), cache)

	genres, err := svc.List(context.Background(), models.MediaMovie)
	require.NoError(t, err)
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Action", "Comedy", "Drama"}, names)

	_, err = svc.List(context.Background(), models.MediaMovie)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)
}

func TestSetPreferencesReplacesWholeSet(t *testing.T) {
	store := seededGenres()
	svc := NewGenreService(store, newFakeCatalog(), nil)
	ctx := context.Background()

	n, err := svc.SetPreferences(ctx, "p-1", models.MediaMovie, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.SetPreferences(ctx, "p-1", models.MediaMovie, []int{3, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	prefs, err := svc.Preferences(ctx, "p-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{3, 2}, prefs.MovieGenreIDs)
	assert.Empty(t, prefs.TVGenreIDs)
}

func TestSetPreferencesRejectsUnknownOrInapplicableIDs(t *testing.T) {
	store := seededGenres()
	svc := NewGenreService(store, newFakeCatalog(), nil)
	ctx := context.Background()

	_, err := svc.SetPreferences(ctx, "p-1", models.MediaMovie, []int{1, 99})
	assert.Equal(t, KindValidation, KindOf(err))

	// genre 4 is TV only
	_, err = svc.SetPreferences(ctx, "p-1", models.MediaMovie, []int{4})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.SetPreferences(ctx, "p-1", models.MediaTV, []int{-1})
	assert.Equal(t, KindValidation, KindOf(err))

	assert.Empty(t, store.prefs)
}

func TestSetPreferencesEmptyClears(t *testing.T) {
	store := seededGenres()
	svc := NewGenreService(store, newFakeCatalog(), nil)
	ctx := context.Background()

	_, err := svc.SetPreferences(ctx, "p-1", models.MediaTV, []int{4})
	require.NoError(t, err)
	n, err := svc.SetPreferences(ctx, "p-1", models.MediaTV, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	prefs, err := svc.Preferences(ctx, "p-1")
	require.NoError(t, err)
	assert.Empty(t, prefs.TVGenreIDs)
}

func TestMergeGenres(t *testing.T) {
	merged := MergeGenres(
		[]tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}},
		[]tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 10759, Name: "Action & Adventure"}},
	)
	assert.Equal(t, []models.Genre{
		{ExternalID: 18, Name: "Drama", Kind: models.GenreKindBoth},
		{ExternalID: 28, Name: "Action", Kind: models.GenreKindMovie},
		{ExternalID: 10759, Name: "Action & Adventure", Kind: models.GenreKindTV},
	}, merged)
}

func TestSyncUpsertsMergedGenresAndDropsCachedLists(t *testing.T) {
	store := seededGenres()
	cache, mr := newTestCache(t)
	catalog := newFakeCatalog().
		on("/genre/movie/list", `{"genres":[{"id":28,"name":"Action"},{"id":18,"name":"Drama"}]}`).
		on("/genre/tv/list", `{"genres":[{"id":18,"name":"Drama"}]}`)
	svc := NewGenreService(store, catalog, cache)

	_, err := svc.List(context.Background(), models.MediaMovie)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cacheKeyPrefix+"genres:movie"))

	n, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.upserted, 2)
	assert.False(t, mr.Exists(cacheKeyPrefix+"genres:movie"))
}

func TestSyncFailsWhenEitherListFails(t *testing.T) {
	store := seededGenres()
	catalog := newFakeCatalog().
		on("/genre/movie/list", `{"genres":[]}`).
		fail("/genre/tv/list", errors.New("connection reset"))
	svc := NewGenreService(store, catalog, nil)

	_, err := svc.Sync(context.Background())
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Empty(t, store.upserted)
}

func TestResolverJoinsExternalIDsAscending(t *testing.T) {
	store := seededGenres()
	store.prefs[prefKey("p-1", models.MediaMovie)] = []int{2, 1, 3}
	r := NewPreferenceResolver(store)

	ids, err := r.Resolve(context.Background(), "p-1", models.MediaMovie)
	require.NoError(t, err)
	assert.Equal(t, "18,28,35", ids)

	_, err = r.Resolve(context.Background(), "p-1", models.MediaTV)
	assert.ErrorIs(t, err, ErrNoPreferences)

	_, err = r.Resolve(context.Background(), "p-1", models.MediaKind("anime"))
	assert.Equal(t, KindValidation, KindOf(err))
}
