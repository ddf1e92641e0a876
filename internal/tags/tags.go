// Package tags reads embedded metadata from music files. The scanner
// uses it to aggregate per-folder artist/album/year votes and to
// recover MusicBrainz release ids written by earlier tagging runs.
package tags

import (
	"path/filepath"
	"strings"
)

// File extensions recognized as audio.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtOPUS = ".opus"
	ExtM4A  = ".m4a"
	ExtWAV  = ".wav"
)

var musicExtensions = map[string]bool{
	ExtMP3:  true,
	ExtFLAC: true,
	ExtOGG:  true,
	ExtOPUS: true,
	ExtM4A:  true,
	ExtWAV:  true,
}

// IsMusicFile reports whether the path has a recognized audio extension.
func IsMusicFile(path string) bool {
	return musicExtensions[strings.ToLower(filepath.Ext(path))]
}

// Tag holds the embedded metadata the scanner cares about.
type Tag struct {
	Path   string
	Title  string
	Artist string
	Album  string
	Date   string // YYYY, YYYY-MM or YYYY-MM-DD as stored in the file

	// MBReleaseID is the MusicBrainz release id embedded by a previous
	// tagging run, empty when absent.
	MBReleaseID string
}

// Year returns the numeric year of the date tag, or 0.
func (t *Tag) Year() int {
	if len(t.Date) < 4 {
		return 0
	}
	year := 0
	for _, c := range t.Date[:4] {
		if c < '0' || c > '9' {
			return 0
		}
		year = year*10 + int(c-'0')
	}
	return year
}
