// Package musicbrainz provides a client for the MusicBrainz API.
package musicbrainz

// searchResponse is the raw response from a release search.
type searchResponse struct {
	Releases []Release `json:"releases"`
}

// Release is a release as returned by the search endpoint. Only the
// substructures the resolver needs are decoded; everything in the
// document is optional and independently absent.
type Release struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Score           int              `json:"score"`
	Date            string           `json:"date"`
	Country         string           `json:"country"`
	Status          string           `json:"status"`
	TrackCount      int              `json:"track-count"`
	ArtistCredit    []ArtistCredit   `json:"artist-credit"`
	ReleaseGroup    *ReleaseGroup    `json:"release-group"`
	Media           []Medium         `json:"media"`
	CoverArtArchive *CoverArtArchive `json:"cover-art-archive"`
}

// HasFrontCover reports whether the Cover Art Archive has a front image
// for this release.
func (r Release) HasFrontCover() bool {
	return r.CoverArtArchive != nil && r.CoverArtArchive.Front
}

// CreditedArtist returns the first artist-credit name, or empty.
func (r Release) CreditedArtist() string {
	if len(r.ArtistCredit) == 0 {
		return ""
	}
	return r.ArtistCredit[0].Name
}

// ReleaseDetail is the full release document from a lookup with the
// rich inc parameter.
type ReleaseDetail struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Date               string              `json:"date"`
	Country            string              `json:"country"`
	Status             string              `json:"status"`
	Barcode            string              `json:"barcode"`
	ASIN               string              `json:"asin"`
	ArtistCredit       []ArtistCredit      `json:"artist-credit"`
	ReleaseGroup       *ReleaseGroup       `json:"release-group"`
	Media              []Medium            `json:"media"`
	LabelInfo          []LabelInfo         `json:"label-info"`
	TextRepresentation *TextRepresentation `json:"text-representation"`
	Tags               []Tag               `json:"tags"`
	Genres             []Tag               `json:"genres"`
}

// CreditedArtist returns the first artist-credit name, or empty.
func (d *ReleaseDetail) CreditedArtist() string {
	if len(d.ArtistCredit) == 0 {
		return ""
	}
	return d.ArtistCredit[0].Name
}

// ArtistCredit is one entry of the (possibly multi-artist) attribution
// structure for a release or track.
type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
	Artist     struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		SortName string `json:"sort-name"`
	} `json:"artist"`
}

// ReleaseGroup is the abstract work spanning multiple releases.
type ReleaseGroup struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	PrimaryType      string `json:"primary-type"`
	FirstReleaseDate string `json:"first-release-date"`
}

// Medium is one disc of a release.
type Medium struct {
	Position   int     `json:"position"`
	Format     string  `json:"format"`
	TrackCount int     `json:"track-count"`
	Tracks     []Track `json:"tracks"`
}

// Track is one track on a medium.
type Track struct {
	ID           string         `json:"id"`
	Position     int            `json:"position"`
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Recording    *Recording     `json:"recording"`
}

// Recording is the recording linked from a track.
type Recording struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	ISRCs []string `json:"isrcs"`
}

// LabelInfo pairs a record label with a catalog number.
type LabelInfo struct {
	CatalogNumber string `json:"catalog-number"`
	Label         *Label `json:"label"`
}

// Label is a record label.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TextRepresentation carries language and script info for a release.
type TextRepresentation struct {
	Language string `json:"language"`
	Script   string `json:"script"`
}

// Tag is a folksonomy tag or genre attached to a release.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CoverArtArchive summarizes the archive state for a release.
type CoverArtArchive struct {
	Front bool `json:"front"`
	Back  bool `json:"back"`
	Count int  `json:"count"`
}
