// Package identify resolves scanned albums against MusicBrainz and
// synthesizes their canonical metadata.
package identify

import (
	"errors"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"tagsmith/internal/domain"
	"tagsmith/internal/musicbrainz"
)

const (
	// UnknownArtist is the sentinel the scanner assigns when no artist
	// could be detected; searching for it would waste API quota.
	UnknownArtist = "Unknown Artist"

	// confidenceThreshold is the minimum upstream match score (0-100,
	// exclusive) for a search result to count as a candidate.
	confidenceThreshold = 80

	// identifyConcurrency bounds concurrent resolutions in a batch.
	// The client's pacer keeps the request rate legal regardless.
	identifyConcurrency = 4
)

// releaseAPI is the slice of the MusicBrainz client the resolver uses.
// An interface so tests can substitute a mock.
type releaseAPI interface {
	SearchReleases(q musicbrainz.SearchQuery) ([]musicbrainz.Release, error)
	GetRelease(mbid string) (*musicbrainz.ReleaseDetail, error)
	GetReleaseTagged(mbid string) (*musicbrainz.ReleaseDetail, error)
}

// Resolver drives album resolution against MusicBrainz.
type Resolver struct {
	api releaseAPI
	log *slog.Logger
}

// NewResolver creates a resolver on top of a MusicBrainz client.
func NewResolver(api releaseAPI, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{api: api, log: log}
}

// Identify searches MusicBrainz for the album and, on a confident
// match, populates its canonical metadata. The input album is not
// mutated; a new album with a terminal status is returned. Errors are
// encoded into the status and never propagate.
func (r *Resolver) Identify(album domain.Album) domain.Album {
	album = album.Clone()

	if album.Artist == UnknownArtist || album.Title == "" {
		album.Status = domain.Unclear
		return album
	}

	releases, err := r.api.SearchReleases(musicbrainz.SearchQuery{
		Artist:  album.Artist,
		Release: album.Title,
		Year:    album.Year,
	})
	if err != nil {
		album.Status = statusForError(err)
		r.log.Error("identification failed",
			"album", album.Title, "status", album.Status.String())
		return album
	}

	candidates := make([]musicbrainz.Release, 0, len(releases))
	for _, rel := range releases {
		if rel.Score > confidenceThreshold {
			candidates = append(candidates, rel)
		}
	}
	if len(candidates) == 0 {
		album.Status = domain.NotFound
		return album
	}

	match := pickCandidate(len(album.Files), candidates)

	album.MBReleaseID = match.ID
	album.Title = match.Title
	if artist := match.CreditedArtist(); artist != "" {
		album.Artist = artist
	}

	// Secondary lookup for the rich detail document. Failure here is
	// non-fatal: the album keeps its coarse match, just without the
	// extended metadata.
	if detail, err := r.api.GetRelease(match.ID); err != nil {
		r.log.Warn("secondary lookup failed", "album", album.Title, "error", err)
	} else {
		applyDetail(&album, detail)
	}

	album.CoverArtURL = musicbrainz.CoverArtURL(album.MBReleaseID)
	album.Status = domain.Match
	return album
}

// Resolve fetches a known release directly, skipping search and
// scoring. Used when a release id is already present from prior tags
// or an explicit operator choice.
func (r *Resolver) Resolve(album domain.Album, releaseID string) domain.Album {
	album = album.Clone()

	detail, err := r.api.GetReleaseTagged(releaseID)
	if err != nil {
		album.Status = statusForError(err)
		r.log.Error("resolve failed",
			"album", album.Title, "release_id", releaseID, "status", album.Status.String())
		return album
	}

	album.MBReleaseID = detail.ID
	album.Title = detail.Title
	if artist := detail.CreditedArtist(); artist != "" {
		album.Artist = artist
	}
	applyDetail(&album, detail)

	album.CoverArtURL = musicbrainz.CoverArtURL(album.MBReleaseID)
	album.Status = domain.Match
	return album
}

// IdentifyAll resolves a batch. Albums that already carry a release id
// take the resolve fast path; the rest go through the full search. One
// album's failure never aborts the batch.
func (r *Resolver) IdentifyAll(albums []domain.Album) []domain.Album {
	out := make([]domain.Album, len(albums))

	var g errgroup.Group
	g.SetLimit(identifyConcurrency)
	for i, album := range albums {
		g.Go(func() error {
			if album.MBReleaseID != "" {
				out[i] = r.Resolve(album, album.MBReleaseID)
			} else {
				out[i] = r.Identify(album)
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// statusForError maps a resolution error onto the status taxonomy:
// exhausted retries, upstream rejection, or unexpected failure.
func statusForError(err error) domain.Status {
	if errors.Is(err, musicbrainz.ErrNoResponse) {
		return domain.APIError("No Response")
	}
	var statusErr *musicbrainz.StatusError
	if errors.As(err, &statusErr) {
		return domain.APIError(strconv.Itoa(statusErr.StatusCode))
	}
	return domain.Failed(err)
}
