// Package organizer relocates tagged albums into the output library
// layout and cleans up their source folders.
package organizer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tagsmith/internal/domain"
)

// Organizer moves finished albums to the output tree.
type Organizer struct {
	outputBase string
	log        *slog.Logger
}

// New creates an organizer rooted at outputBase.
func New(outputBase string, log *slog.Logger) *Organizer {
	if log == nil {
		log = slog.Default()
	}
	return &Organizer{outputBase: outputBase, log: log}
}

// Report summarizes a batch move.
type Report struct {
	Attempted int `json:"attempted"`
	Moved     int `json:"moved"`
}

// OrganizeAlbum moves the album's files to
// <output>/<Artist>/<Artist - Title (Year)>/ and removes the emptied
// source directory. The returned album's file paths point at the new
// locations. Cleanup failure is a warning, not an error.
func (o *Organizer) OrganizeAlbum(album domain.Album) (domain.Album, error) {
	album = album.Clone()

	safeArtist := sanitize(album.Artist)
	folder := sanitize(album.Artist + " - " + album.Title)
	if album.Year > 0 {
		folder = fmt.Sprintf("%s (%d)", folder, album.Year)
	}
	targetDir := filepath.Join(o.outputBase, safeArtist, folder)

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return album, fmt.Errorf("create target dir: %w", err)
	}

	for i := range album.Files {
		file := &album.Files[i]
		dest := filepath.Join(targetDir, file.Filename)
		if err := moveFile(file.Path, dest); err != nil {
			return album, fmt.Errorf("move %s: %w", file.Filename, err)
		}
		file.Path = dest
	}

	// Remove the source folder with whatever non-audio leftovers it
	// still holds.
	if album.Path != "" {
		if err := os.RemoveAll(album.Path); err != nil {
			o.log.Warn("could not remove source directory",
				"path", album.Path, "error", err)
		}
	}

	return album, nil
}

// OrganizeAll moves every Match album and reports how many made it.
// One album's failure never aborts the batch.
func (o *Organizer) OrganizeAll(albums []domain.Album) ([]domain.Album, Report) {
	out := make([]domain.Album, len(albums))
	report := Report{Attempted: len(albums)}

	for i, album := range albums {
		if !album.Status.IsMatch() {
			out[i] = album.Clone()
			continue
		}
		moved, err := o.OrganizeAlbum(album)
		out[i] = moved
		if err != nil {
			o.log.Error("failed to organize album", "album", album.Title, "error", err)
			continue
		}
		report.Moved++
	}

	return out, report
}

// sanitize strips characters unsafe in path components.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune("._- ", r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return dstFile.Close()
}

// moveFile renames when the destination is on the same filesystem and
// falls back to copy + delete otherwise.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
