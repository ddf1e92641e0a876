// Package scanner walks an input tree and aggregates audio files into
// album records with heuristic metadata, ready for identification.
package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tagsmith/internal/domain"
	"tagsmith/internal/identify"
	"tagsmith/internal/tags"
)

// Scanner builds album records from folders of audio files.
type Scanner struct {
	log *slog.Logger
}

// New creates a scanner.
func New(log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{log: log}
}

// Scan walks root and returns one album per directory that directly
// contains audio files. Artist, title and year come from a majority
// vote over the files' embedded tags, falling back to the folder name;
// a unanimous embedded release id puts the album on the resolve fast
// path.
func (s *Scanner) Scan(root string) ([]domain.Album, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}

	dirs := map[string][]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		// Skip unreadable entries, keep scanning the rest.
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() || !tags.IsMusicFile(path) {
			return nil
		}
		dir := filepath.Dir(path)
		dirs[dir] = append(dirs[dir], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	paths := make([]string, 0, len(dirs))
	for dir := range dirs {
		paths = append(paths, dir)
	}
	sort.Strings(paths)

	albums := make([]domain.Album, 0, len(paths))
	for _, dir := range paths {
		files := dirs[dir]
		sort.Strings(files)
		albums = append(albums, s.scanFolder(dir, files))
	}
	return albums, nil
}

// scanFolder builds one album from the audio files of a single folder.
func (s *Scanner) scanFolder(dir string, paths []string) domain.Album {
	var (
		files   []domain.MusicFile
		artists []string
		titles  []string
		years   []int
		mbIDs   []string
	)

	for _, path := range paths {
		file := domain.MusicFile{
			Filename:  filepath.Base(path),
			Path:      path,
			Extension: strings.ToLower(filepath.Ext(path)),
		}
		if info, err := os.Stat(path); err == nil {
			file.SizeBytes = info.Size()
		}

		t, err := tags.Read(path)
		if err != nil {
			s.log.Warn("could not read tags", "file", path, "error", err)
		} else {
			file.Title = t.Title
			file.Artist = t.Artist
			file.Album = t.Album
			file.Year = t.Year()

			if t.Artist != "" {
				artists = append(artists, t.Artist)
			}
			if t.Album != "" {
				titles = append(titles, t.Album)
			}
			if y := t.Year(); y > 0 {
				years = append(years, y)
			}
			if t.MBReleaseID != "" {
				file.ExtendedTags = map[string]string{"musicbrainz_albumid": t.MBReleaseID}
				mbIDs = append(mbIDs, t.MBReleaseID)
			}
		}

		files = append(files, file)
	}

	artist := majority(artists)
	title := majority(titles)

	// Folder-name fallback: "Artist - Title".
	if artist == "" || title == "" {
		folder := filepath.Base(dir)
		parts := strings.SplitN(folder, " - ", 2)
		if artist == "" {
			if len(parts) == 2 {
				artist = strings.TrimSpace(parts[0])
			} else {
				artist = identify.UnknownArtist
			}
		}
		if title == "" {
			if len(parts) == 2 {
				title = strings.TrimSpace(parts[1])
			} else {
				title = folder
			}
		}
	}

	album := domain.Album{
		ID:             dir,
		Title:          title,
		Artist:         artist,
		Year:           majorityInt(years),
		Path:           dir,
		Files:          files,
		Status:         domain.Pending,
		LocalCoverPath: findLocalCover(dir),
	}

	// A release id counts only when every file carries the same one.
	if len(mbIDs) == len(files) && len(files) > 0 && allEqual(mbIDs) {
		album.MBReleaseID = mbIDs[0]
	}

	return album
}

// majority returns the most frequent value, or empty for no input.
// Ties resolve to the value seen first.
func majority(values []string) string {
	if len(values) == 0 {
		return ""
	}
	counts := make(map[string]int, len(values))
	best := values[0]
	for _, v := range values {
		counts[v]++
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

func majorityInt(values []int) int {
	if len(values) == 0 {
		return 0
	}
	counts := make(map[int]int, len(values))
	best := values[0]
	for _, v := range values {
		counts[v]++
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

func allEqual(values []string) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
