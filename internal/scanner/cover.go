package scanner

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Common cover art filenames (case-insensitive).
var coverArtNames = []string{
	"cover",
	"folder",
	"front",
	"album",
	"albumart",
	"artwork",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// findLocalCover looks for a cover image file in the album folder.
// Returns the full path, or empty when none is found. A local cover
// takes precedence over anything fetched from the network later.
func findLocalCover(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		base := strings.ToLower(strings.TrimSuffix(name, ext))

		if slices.Contains(imageExtensions, ext) && slices.Contains(coverArtNames, base) {
			return filepath.Join(dir, name)
		}
	}

	return ""
}
