package tagger

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// writeVorbis writes the write-set into an Ogg/Opus file via TagLib.
// Only the keys being written are touched; the rest of the comment
// block is preserved.
func writeVorbis(path string, ws writeSet) error {
	comments := vorbisComments(ws)

	values := make(map[string][]string, len(comments))
	for key, value := range comments {
		values[key] = []string{value}
	}

	if err := taglib.WriteTags(path, values, 0); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}

	// TagLib replaces all pictures on write, so only insert when the
	// file has none; an existing curated cover is never clobbered.
	if len(ws.Cover) > 0 && !hasEmbeddedPicture(path) {
		if err := taglib.WriteImage(path, ws.Cover); err != nil {
			return fmt.Errorf("write cover art: %w", err)
		}
	}

	return nil
}

// hasEmbeddedPicture reports whether the file already carries an
// embedded image.
func hasEmbeddedPicture(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return false
	}
	return m.Picture() != nil
}
