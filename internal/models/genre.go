package models

// GenreKind says which catalog a genre applies to.
type GenreKind string

const (
	GenreKindMovie GenreKind = "MOVIE"
	GenreKindTV    GenreKind = "TV"
	GenreKindBoth  GenreKind = "BOTH"
)

// MediaKind is a provider media type accepted on browse routes.
type MediaKind string

const (
	MediaMovie MediaKind = "movie"
	MediaTV    MediaKind = "tv"
)

// ParseMediaKind reports whether s names a supported media kind.
func ParseMediaKind(s string) (MediaKind, bool) {
	switch MediaKind(s) {
	case MediaMovie, MediaTV:
		return MediaKind(s), true
	}
	return "", false
}

// GenreKinds returns the stored genre kinds that apply to media kind k.
func (k MediaKind) GenreKinds() []string {
	if k == MediaTV {
		return []string{string(GenreKindTV), string(GenreKindBoth)}
	}
	return []string{string(GenreKindMovie), string(GenreKindBoth)}
}

// Genre is a provider genre seeded into the local store.
type Genre struct {
	ID         int       `json:"id"`
	ExternalID int       `json:"externalId"`
	Name       string    `json:"name"`
	Kind       GenreKind `json:"-"`
}

// SetGenresRequest replaces a profile's genre preferences.
type SetGenresRequest struct {
	GenreIDs []int `json:"genreIds"`
}

// ProfileGenres lists a profile's selected genre ids per kind.
type ProfileGenres struct {
	MovieGenreIDs []int `json:"movieGenreIds"`
	TVGenreIDs    []int `json:"tvGenreIds"`
}
