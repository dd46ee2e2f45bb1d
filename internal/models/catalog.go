package models

import "encoding/json"

// ContentDetail is the normalized detail page for a movie or TV show.
type ContentDetail struct {
	ID          int        `json:"id"`
	Type        MediaKind  `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PosterURL   string     `json:"posterUrl"`
	BackdropURL string     `json:"backdropUrl"`
	ReleaseDate string     `json:"releaseDate"`
	Genres      []string   `json:"genres"`
	Rating      float64    `json:"rating"`
	Cast        []CastItem `json:"cast"`
	Seasons     []Season   `json:"seasons,omitempty"`
}

// CastItem is one billed cast member.
type CastItem struct {
	Name      string  `json:"name"`
	Character string  `json:"character"`
	Profile   *string `json:"profile"`
}

// Season summarizes one TV season.
type Season struct {
	SeasonNumber int     `json:"seasonNumber"`
	EpisodeCount int     `json:"episodeCount"`
	Name         string  `json:"name"`
	Poster       *string `json:"poster"`
}

// Trailer is the selected video for a title. TrailerURL is nil when nothing matched.
type Trailer struct {
	TrailerURL *string `json:"trailerUrl"`
	Key        string  `json:"key,omitempty"`
	Site       string  `json:"site,omitempty"`
	Name       string  `json:"name,omitempty"`
	Type       string  `json:"type,omitempty"`
}

// DiscoverResult is either the provider page passed through or an empty
// result set with an explanation.
type DiscoverResult struct {
	Raw     json.RawMessage
	Message string
}

// MarshalJSON emits the provider page verbatim, or {results: [], message}.
func (d DiscoverResult) MarshalJSON() ([]byte, error) {
	if d.Raw != nil {
		return d.Raw, nil
	}
	return json.Marshal(struct {
		Results []json.RawMessage `json:"results"`
		Message string            `json:"message"`
	}{Results: []json.RawMessage{}, Message: d.Message})
}

// UploadURLRequest asks for a presigned upload URL.
type UploadURLRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Folder   string `json:"folder"`
}

// UploadURLResponse carries a presigned URL and the object key it writes.
type UploadURLResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
