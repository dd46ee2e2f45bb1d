package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/tmdb"
)

const (
	maxCastMembers = 10

	posterSize   = "w500"
	backdropSize = "original"
	castSize     = "w185"
	seasonSize   = "w300"

	youtubeWatchURL = "https://www.youtube.com/watch?v="

	noPreferencesMessage = "No genre preferences set for this profile"
)

var (
	trendingMediaTypes = map[string]bool{"all": true, "movie": true, "tv": true, "person": true}
	trendingWindows    = map[string]bool{"day": true, "week": true}
)

// CatalogClient fetches raw JSON from the metadata provider.
type CatalogClient interface {
	Fetch(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
}

// DiscoveryService proxies and reshapes provider catalog data.
type DiscoveryService struct {
	client    CatalogClient
	resolver  *PreferenceResolver
	cache     *ResponseCache
	imageBase string
}

// NewDiscoveryService creates a new DiscoveryService.
func NewDiscoveryService(client CatalogClient, resolver *PreferenceResolver, cache *ResponseCache, imageBaseURL string) *DiscoveryService {
	return &DiscoveryService{
		client:    client,
		resolver:  resolver,
		cache:     cache,
		imageBase: strings.TrimRight(imageBaseURL, "/"),
	}
}

// NormalizePage parses a page query value; anything that is not a positive
// integer becomes 1.
func NormalizePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Details returns the normalized detail view of a movie or show. Details and
// credits are fetched concurrently; either failure fails the call.
func (s *DiscoveryService) Details(ctx context.Context, kindParam, idParam string) (*models.ContentDetail, error) {
	kind, id, err := parseContentRef(kindParam, idParam)
	if err != nil {
		return nil, err
	}

	base := "/" + string(kind) + "/" + strconv.Itoa(id)
	data, err := s.cache.Fetch(ctx, "details:"+string(kind)+":"+strconv.Itoa(id), func() ([]byte, error) {
		var details tmdb.Details
		var credits tmdb.Credits

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return fetchJSON(gctx, s.client, base, nil, &details) })
		g.Go(func() error { return fetchJSON(gctx, s.client, base+"/credits", nil, &credits) })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return json.Marshal(s.normalizeDetails(kind, &details, &credits))
	})
	if err != nil {
		return nil, providerError("Failed to fetch content details", err)
	}

	var detail models.ContentDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, internalError("Failed to fetch content details", err)
	}
	return &detail, nil
}

func (s *DiscoveryService) normalizeDetails(kind models.MediaKind, d *tmdb.Details, c *tmdb.Credits) models.ContentDetail {
	title := d.Title
	if title == "" {
		title = d.Name
	}
	released := d.ReleaseDate
	if released == "" {
		released = d.FirstAirDate
	}

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	cast := make([]models.CastItem, 0, maxCastMembers)
	for i, m := range c.Cast {
		if i == maxCastMembers {
			break
		}
		cast = append(cast, models.CastItem{
			Name:      m.Name,
			Character: m.Character,
			Profile:   s.optionalImage(castSize, m.ProfilePath),
		})
	}

	detail := models.ContentDetail{
		ID:          d.ID,
		Type:        kind,
		Title:       title,
		Description: d.Overview,
		PosterURL:   s.image(posterSize, d.PosterPath),
		BackdropURL: s.image(backdropSize, d.BackdropPath),
		ReleaseDate: released,
		Genres:      genres,
		Rating:      d.VoteAverage,
		Cast:        cast,
	}
	if kind == models.MediaTV {
		detail.Seasons = make([]models.Season, 0, len(d.Seasons))
		for _, season := range d.Seasons {
			detail.Seasons = append(detail.Seasons, models.Season{
				SeasonNumber: season.SeasonNumber,
				EpisodeCount: season.EpisodeCount,
				Name:         season.Name,
				Poster:       s.optionalImage(seasonSize, season.PosterPath),
			})
		}
	}
	return detail
}

// Hero returns the first trending title of the day.
func (s *DiscoveryService) Hero(ctx context.Context) (json.RawMessage, error) {
	data, err := s.cachedFetch(ctx, "trending:all:day", "/trending/all/day", nil)
	if err != nil {
		return nil, upstreamError("Failed to fetch hero video", err)
	}

	var page tmdb.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, upstreamError("Failed to fetch hero video", err)
	}
	if len(page.Results) == 0 {
		return nil, notFoundError("No hero video found")
	}
	return page.Results[0], nil
}

// TopRated returns a page of top rated titles of kind as the provider sent it.
func (s *DiscoveryService) TopRated(ctx context.Context, kindParam string, page int) (json.RawMessage, error) {
	kind, ok := models.ParseMediaKind(kindParam)
	if !ok {
		return nil, validationError(`Invalid type. Use "movie" or "tv"`)
	}
	if page < 1 {
		page = 1
	}

	query := url.Values{"page": {strconv.Itoa(page)}}
	data, err := s.cachedFetch(ctx, "top_rated:"+string(kind)+":"+strconv.Itoa(page), "/"+string(kind)+"/top_rated", query)
	if err != nil {
		return nil, upstreamError("Failed to fetch top rated content", err)
	}
	return data, nil
}

// DiscoverForProfile discovers titles of kind matching the profile's genre
// preferences. Without preferences no provider call is made and an empty
// result with an explanation is returned. Kid profiles get adult content
// excluded and, for movies, a PG certification ceiling.
func (s *DiscoveryService) DiscoverForProfile(ctx context.Context, profile *models.Profile, kind models.MediaKind, page int) (models.DiscoverResult, error) {
	genreIDs, err := s.resolver.Resolve(ctx, profile.ID, kind)
	if err != nil {
		if errors.Is(err, ErrNoPreferences) {
			return models.DiscoverResult{Message: noPreferencesMessage}, nil
		}
		return models.DiscoverResult{}, err
	}
	if page < 1 {
		page = 1
	}

	query := url.Values{
		"with_genres": {genreIDs},
		"page":        {strconv.Itoa(page)},
	}
	if profile.IsKid {
		query.Set("include_adult", "false")
		if kind == models.MediaMovie {
			query.Set("certification_country", "US")
			query.Set("certification.lte", "PG")
		}
	}

	data, err := s.cachedFetch(ctx, "discover:"+string(kind)+":"+query.Encode(), "/discover/"+string(kind), query)
	if err != nil {
		return models.DiscoverResult{}, upstreamError("Failed to fetch "+string(kind)+" content", err)
	}
	return models.DiscoverResult{Raw: data}, nil
}

// Trending returns trending titles. Empty arguments default to all/day.
func (s *DiscoveryService) Trending(ctx context.Context, mediaType, window string) (json.RawMessage, error) {
	if mediaType == "" {
		mediaType = "all"
	}
	if window == "" {
		window = "day"
	}
	if !trendingMediaTypes[mediaType] {
		return nil, validationError("Invalid media_type. Use all, movie, tv or person")
	}
	if !trendingWindows[window] {
		return nil, validationError("Invalid time_window. Use day or week")
	}

	data, err := s.cachedFetch(ctx, "trending:"+mediaType+":"+window, "/trending/"+mediaType+"/"+window, nil)
	if err != nil {
		return nil, upstreamError("Failed to fetch trending content", err)
	}
	return data, nil
}

// Trailer picks the best trailer for a title.
func (s *DiscoveryService) Trailer(ctx context.Context, kindParam, idParam string) (*models.Trailer, error) {
	kind, id, err := parseContentRef(kindParam, idParam)
	if err != nil {
		return nil, err
	}

	data, err := s.cache.Fetch(ctx, "trailer:"+string(kind)+":"+strconv.Itoa(id), func() ([]byte, error) {
		var videos tmdb.VideoList
		path := "/" + string(kind) + "/" + strconv.Itoa(id) + "/videos"
		if err := fetchJSON(ctx, s.client, path, nil, &videos); err != nil {
			return nil, err
		}
		return json.Marshal(trailerFor(SelectTrailer(videos.Results)))
	})
	if err != nil {
		return nil, providerError("Failed to fetch trailer", err)
	}

	var trailer models.Trailer
	if err := json.Unmarshal(data, &trailer); err != nil {
		return nil, internalError("Failed to fetch trailer", err)
	}
	return &trailer, nil
}

// SelectTrailer prefers an official YouTube trailer, then any YouTube video.
// It returns nil when neither exists.
func SelectTrailer(videos []tmdb.Video) *tmdb.Video {
	for i := range videos {
		v := &videos[i]
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Official {
			return v
		}
	}
	for i := range videos {
		if videos[i].Site == "YouTube" {
			return &videos[i]
		}
	}
	return nil
}

func trailerFor(v *tmdb.Video) models.Trailer {
	if v == nil {
		return models.Trailer{}
	}
	u := youtubeWatchURL + v.Key
	return models.Trailer{TrailerURL: &u, Key: v.Key, Site: v.Site, Name: v.Name, Type: v.Type}
}

func (s *DiscoveryService) cachedFetch(ctx context.Context, key, path string, query url.Values) ([]byte, error) {
	return s.cache.Fetch(ctx, key, func() ([]byte, error) {
		return s.client.Fetch(ctx, path, query)
	})
}

func (s *DiscoveryService) image(size, path string) string {
	return s.imageBase + "/" + size + path
}

func (s *DiscoveryService) optionalImage(size, path string) *string {
	if path == "" {
		return nil
	}
	u := s.image(size, path)
	return &u
}

func parseContentRef(kindParam, idParam string) (models.MediaKind, int, error) {
	kind, ok := models.ParseMediaKind(kindParam)
	if !ok {
		return "", 0, validationError(`Invalid type. Use "movie" or "tv"`)
	}
	id, err := strconv.Atoi(idParam)
	if err != nil || id < 1 {
		return "", 0, validationError("Invalid content id")
	}
	return kind, id, nil
}

func providerError(msg string, err error) error {
	if tmdb.IsNotFound(err) {
		return notFoundError("Content not found")
	}
	return upstreamError(msg, err)
}
