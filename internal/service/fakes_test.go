package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"movie-discovery-bff/internal/auth"
	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/repository"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byEmail: map[string]*models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	f.nextID++
	u.ID = fmt.Sprintf("u-%d", f.nextID)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	stored := *u
	f.byEmail[u.Email] = &stored
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsers) UpsertByEmail(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byEmail[u.Email]; ok {
		out := *existing
		return &out, nil
	}
	f.nextID++
	stored := *u
	stored.ID = fmt.Sprintf("u-%d", f.nextID)
	f.byEmail[u.Email] = &stored
	out := stored
	return &out, nil
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byEmail)
}

type fakeTokens struct{}

func (fakeTokens) Generate(userID string) (string, error) { return "token-" + userID, nil }

type fakeVerifier struct {
	identity auth.GoogleIdentity
	err      error
}

func (f fakeVerifier) Verify(context.Context, string) (auth.GoogleIdentity, error) {
	return f.identity, f.err
}

type fakeProfiles struct {
	mu     sync.Mutex
	byID   map[string]*models.Profile
	nextID int
}

func newFakeProfiles(profiles ...models.Profile) *fakeProfiles {
	f := &fakeProfiles{byID: map[string]*models.Profile{}}
	for i := range profiles {
		p := profiles[i]
		f.byID[p.ID] = &p
	}
	return f
}

func (f *fakeProfiles) ListByUser(_ context.Context, userID string) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Profile, 0)
	for _, p := range f.byID {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProfiles) Create(_ context.Context, userID string, req models.CreateProfileRequest) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := &models.Profile{
		ID:        fmt.Sprintf("p-new-%d", f.nextID),
		UserID:    userID,
		Name:      req.Name,
		AvatarKey: req.AvatarKey,
		IsKid:     req.IsKid,
		CreatedAt: time.Now(),
	}
	f.byID[p.ID] = p
	out := *p
	return &out, nil
}

func (f *fakeProfiles) FindByID(_ context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *p
	f.byID[p.ID] = &stored
	return nil
}

func (f *fakeProfiles) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeGenres struct {
	mu        sync.Mutex
	genres    []models.Genre
	prefs     map[string][]int
	listCalls int
	upserted  []models.Genre
}

func newFakeGenres(genres ...models.Genre) *fakeGenres {
	return &fakeGenres{genres: genres, prefs: map[string][]int{}}
}

func prefKey(profileID string, kind models.MediaKind) string { return profileID + "/" + string(kind) }

func kindAllowed(g models.Genre, kinds []string) bool {
	for _, k := range kinds {
		if string(g.Kind) == k {
			return true
		}
	}
	return false
}

func (f *fakeGenres) List(_ context.Context, kinds []string) ([]models.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]models.Genre, 0)
	for _, g := range f.genres {
		if kindAllowed(g, kinds) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeGenres) CountApplicable(_ context.Context, ids []int, kinds []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range ids {
		for _, g := range f.genres {
			if g.ID == id && kindAllowed(g, kinds) {
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeGenres) ReplacePreferences(_ context.Context, profileID string, kind models.MediaKind, ids []int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[prefKey(profileID, kind)] = append([]int(nil), ids...)
	return len(ids), nil
}

func (f *fakeGenres) PreferredGenres(_ context.Context, profileID string, kind models.MediaKind) ([]models.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Genre, 0)
	for _, id := range f.prefs[prefKey(profileID, kind)] {
		for _, g := range f.genres {
			if g.ID == id {
				out = append(out, g)
			}
		}
	}
	return out, nil
}

func (f *fakeGenres) UpsertGenres(_ context.Context, genres []models.Genre) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, genres...)
	return len(genres), nil
}

type fakeWatches struct {
	mu       sync.Mutex
	history  []models.ContinueWatching
	pointers map[string]*models.ContinueWatching
	clock    time.Time
	nextID   int64
}

func newFakeWatches() *fakeWatches {
	return &fakeWatches{
		pointers: map[string]*models.ContinueWatching{},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeWatches) RecordWatch(_ context.Context, profileID, movieID, episodeID string, progress float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Minute)

	entry := models.ContinueWatching{ProfileID: profileID, Progress: progress, LastWatchedAt: f.clock}
	key := profileID + "/movie/" + movieID
	if movieID != "" {
		entry.MovieID = &movieID
	} else {
		entry.EpisodeID = &episodeID
		key = profileID + "/episode/" + episodeID
	}
	f.history = append(f.history, entry)

	if existing, ok := f.pointers[key]; ok {
		existing.Progress = progress
		existing.LastWatchedAt = f.clock
		return nil
	}
	f.nextID++
	entry.ID = f.nextID
	f.pointers[key] = &entry
	return nil
}

func (f *fakeWatches) ListContinueWatching(_ context.Context, profileID string, limit int) ([]models.ContinueWatching, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ContinueWatching, 0)
	for _, e := range f.pointers {
		if e.ProfileID == profileID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastWatchedAt.After(out[j].LastWatchedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeResponse struct {
	body string
	err  error
}

type fakeCatalog struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []string
	queries   map[string]url.Values
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{responses: map[string]fakeResponse{}, queries: map[string]url.Values{}}
}

func (f *fakeCatalog) on(path string, body any) *fakeCatalog {
	var s string
	switch b := body.(type) {
	case string:
		s = b
	default:
		raw, _ := json.Marshal(b)
		s = string(raw)
	}
	f.responses[path] = fakeResponse{body: s}
	return f
}

func (f *fakeCatalog) fail(path string, err error) *fakeCatalog {
	f.responses[path] = fakeResponse{err: err}
	return f
}

func (f *fakeCatalog) Fetch(_ context.Context, path string, query url.Values) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	f.queries[path] = query
	resp, ok := f.responses[path]
	if !ok {
		return nil, errors.New("unexpected path " + path)
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return json.RawMessage(resp.body), nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePresigner struct {
	key         string
	contentType string
	ttl         time.Duration
	err         error
}

func (f *fakePresigner) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (string, error) {
	f.key, f.contentType, f.ttl = key, contentType, ttl
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.example/" + key + "?sig=1", nil
}
