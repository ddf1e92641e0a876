// Package tagger writes resolved album metadata back into the audio
// files' native tag formats.
package tagger

import (
	"log/slog"
	"maps"
	"os"

	"tagsmith/internal/domain"
	"tagsmith/internal/tags"
)

// coverFetcher downloads cover art from a URL, returning nil when no
// image could be obtained.
type coverFetcher interface {
	FetchCoverArt(url string) []byte
}

// Tagger writes canonical metadata into audio files.
type Tagger struct {
	covers coverFetcher
	log    *slog.Logger

	// strict requires the track number parsed from a filename to agree
	// with the metadata position before track-level tags are written.
	strict bool
}

// Options configures a Tagger.
type Options struct {
	// StrictTrackMatch enables filename/position validation of the
	// track-to-file correspondence.
	StrictTrackMatch bool
}

// New creates a tagger. covers may be nil when cover fetching is
// disabled.
func New(covers coverFetcher, log *slog.Logger, opts Options) *Tagger {
	if log == nil {
		log = slog.Default()
	}
	return &Tagger{covers: covers, log: log, strict: opts.StrictTrackMatch}
}

// writeSet is the per-file set of values to write: the core fields
// plus the merged extended mapping, with track-level keys already
// folded in.
type writeSet struct {
	Artist     string
	Album      string
	TrackTitle string // empty when no track metadata applies
	Year       int
	Extended   map[string]string
	Cover      []byte // nil when no cover should be considered
}

// TagAlbum writes metadata to every file of the album, in place on
// disk. A per-file failure is logged and the file skipped; the rest of
// the album is still written. The returned album's file records mirror
// what was written.
func (t *Tagger) TagAlbum(album domain.Album) domain.Album {
	album = album.Clone()

	cover := t.resolveCover(album)

	for i := range album.Files {
		file := &album.Files[i]

		ws := t.buildWriteSet(album, i)
		ws.Cover = cover

		var err error
		switch file.Extension {
		case tags.ExtMP3:
			err = writeID3(file.Path, ws)
		case tags.ExtFLAC:
			err = writeFLAC(file.Path, ws)
		case tags.ExtOGG, tags.ExtOPUS:
			err = writeVorbis(file.Path, ws)
		case tags.ExtM4A:
			err = writeM4A(file.Path, ws)
		default:
			t.log.Warn("unsupported tag format, skipping",
				"file", file.Filename, "extension", file.Extension)
			continue
		}
		if err != nil {
			t.log.Error("failed to tag file", "file", file.Filename, "error", err)
			continue
		}

		// Mirror the written values so callers observe the final state
		// without re-reading the file.
		file.Artist = ws.Artist
		file.Album = ws.Album
		file.Year = ws.Year
		if ws.TrackTitle != "" {
			file.Title = ws.TrackTitle
		}
		file.ExtendedTags = maps.Clone(ws.Extended)
	}

	return album
}

// TagAll writes every album whose resolution reached Match. Unresolved
// albums are passed through untouched so placeholder data never lands
// in files.
func (t *Tagger) TagAll(albums []domain.Album) []domain.Album {
	out := make([]domain.Album, len(albums))
	for i, album := range albums {
		if album.Status.IsMatch() {
			out[i] = t.TagAlbum(album)
		} else {
			out[i] = album.Clone()
		}
	}
	return out
}

// buildWriteSet merges the album-scoped metadata with the file's track
// metadata; track-level keys win on conflict. Title and artist are
// lifted out of the mapping into the core fields.
func (t *Tagger) buildWriteSet(album domain.Album, index int) writeSet {
	merged := make(map[string]string, len(album.ExtendedMetadata)+4)
	maps.Copy(merged, album.ExtendedMetadata)

	if track := t.trackForFile(album, index); track != nil {
		maps.Copy(merged, track)
	}

	ws := writeSet{
		Artist:   album.Artist,
		Album:    album.Title,
		Year:     album.Year,
		Extended: merged,
	}
	if artist := merged["artist"]; artist != "" {
		ws.Artist = artist
	}
	ws.TrackTitle = merged["title"]
	delete(merged, "artist")
	delete(merged, "title")

	return ws
}

// trackForFile returns the track metadata paired with the file at the
// given index, or nil when none applies. The default pairing is
// positional; strict mode additionally requires the filename's track
// number to agree with the position and refuses ambiguous files
// rather than mis-tagging them.
func (t *Tagger) trackForFile(album domain.Album, index int) map[string]string {
	if index >= len(album.TracksMetadata) {
		return nil
	}

	if t.strict {
		num, ok := filenameTrackNumber(album.Files[index].Filename)
		if !ok || num != index+1 {
			t.log.Warn("ambiguous track correspondence, skipping track tags",
				"file", album.Files[index].Filename, "position", index+1)
			return nil
		}
	}

	return album.TracksMetadata[index]
}

// resolveCover returns the image to consider for embedding. A locally
// discovered cover always wins over the network fetch; fetch failures
// degrade to no cover.
func (t *Tagger) resolveCover(album domain.Album) []byte {
	if album.LocalCoverPath != "" {
		data, err := os.ReadFile(album.LocalCoverPath)
		if err == nil {
			return data
		}
		t.log.Warn("could not read local cover",
			"path", album.LocalCoverPath, "error", err)
	}

	if album.CoverArtURL != "" && t.covers != nil {
		return t.covers.FetchCoverArt(album.CoverArtURL)
	}
	return nil
}
