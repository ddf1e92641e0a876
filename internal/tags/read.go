package tags

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Read reads embedded tag metadata from a music file. dhowden/tag
// covers the common path; format-specific readers fill in the
// MusicBrainz release id and act as fallbacks where dhowden/tag has
// known parsing gaps.
func Read(path string) (*Tag, error) {
	t := &Tag{Path: path}
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, readErr := tag.ReadFrom(f)
	f.Close()

	if readErr == nil {
		t.Title = m.Title()
		t.Artist = m.Artist()
		t.Album = m.Album()
		if year := m.Year(); year > 0 {
			t.Date = strconv.Itoa(year)
		}
	} else if ext != ExtMP3 && ext != ExtFLAC {
		// No fallback reader for this format.
		return nil, readErr
	}

	switch ext {
	case ExtMP3:
		readMP3Extended(path, t)
	case ExtFLAC:
		readFLACExtended(path, t)
	}

	return t, nil
}
