package tmdb

import "encoding/json"

// ---- TMDB Response Types (internal, not exposed to consumers) ----

// Details covers both /movie/{id} and /tv/{id}; movies fill Title and
// ReleaseDate, shows fill Name, FirstAirDate and Seasons.
type Details struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Name         string   `json:"name"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	ReleaseDate  string   `json:"release_date"`
	FirstAirDate string   `json:"first_air_date"`
	VoteAverage  float64  `json:"vote_average"`
	Genres       []Genre  `json:"genres"`
	Seasons      []Season `json:"seasons"`
}

// Season is a TV season entry in a show's details.
type Season struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
}

// Credits is the /{type}/{id}/credits response.
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// CastMember is one billed actor.
type CastMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

// VideoList is the /{type}/{id}/videos response.
type VideoList struct {
	Results []Video `json:"results"`
}

// Video is a single video entry.
type Video struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Genre is a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the /genre/{type}/list response.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// Page is the common paged list envelope (trending, top rated, discover).
// Results are kept raw so they can be passed through untouched.
type Page struct {
	Page         int               `json:"page"`
	Results      []json.RawMessage `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}
