// Package domain defines the album and file records that flow through the
// scan, identify, tag and organize stages.
package domain

import (
	"maps"
	"strconv"
)

// MusicFile is a single audio file inside an album folder. The tag fields
// mirror what was last written to disk so callers can observe the final
// state without re-reading the file.
type MusicFile struct {
	Filename     string            `json:"filename"`
	Path         string            `json:"path"`
	Extension    string            `json:"extension"`
	SizeBytes    int64             `json:"size_bytes"`
	Title        string            `json:"title,omitempty"`
	Artist       string            `json:"artist,omitempty"`
	Album        string            `json:"album,omitempty"`
	Year         int               `json:"year,omitempty"`
	ExtendedTags map[string]string `json:"extended_tags,omitempty"`
}

// Album is one scanned folder of audio files plus everything resolution
// learned about it. Stages take an Album by value and return a new one;
// Clone deep-copies the maps and slices so no two stages share state.
type Album struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   int    `json:"year,omitempty"`
	Path   string `json:"path"`

	// Files in discovery order. TracksMetadata[i] is paired with Files[i]
	// unless strict track matching overrides the pairing.
	Files []MusicFile `json:"files"`

	// ExtendedMetadata holds album-scoped canonical keys; only non-empty
	// values are ever stored.
	ExtendedMetadata map[string]string   `json:"extended_metadata,omitempty"`
	TracksMetadata   []map[string]string `json:"tracks_metadata,omitempty"`

	Status         Status `json:"status"`
	MBReleaseID    string `json:"mb_release_id,omitempty"`
	CoverArtURL    string `json:"cover_art_url,omitempty"`
	LocalCoverPath string `json:"local_cover_path,omitempty"`
}

// Clone returns a deep copy of the album.
func (a Album) Clone() Album {
	out := a

	out.Files = make([]MusicFile, len(a.Files))
	for i, f := range a.Files {
		out.Files[i] = f
		if f.ExtendedTags != nil {
			out.Files[i].ExtendedTags = maps.Clone(f.ExtendedTags)
		}
	}

	if a.ExtendedMetadata != nil {
		out.ExtendedMetadata = maps.Clone(a.ExtendedMetadata)
	}
	if a.TracksMetadata != nil {
		out.TracksMetadata = make([]map[string]string, len(a.TracksMetadata))
		for i, t := range a.TracksMetadata {
			out.TracksMetadata[i] = maps.Clone(t)
		}
	}

	return out
}

// FolderName returns the display name used for the organized album folder.
func (a Album) FolderName() string {
	name := a.Artist + " - " + a.Title
	if a.Year > 0 {
		name += " (" + strconv.Itoa(a.Year) + ")"
	}
	return name
}
