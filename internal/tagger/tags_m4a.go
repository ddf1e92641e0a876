package tagger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Sorrow446/go-mp4tag"
)

// writeM4A writes the write-set into an M4A file. Extended keys beyond
// the standard atoms become freeform iTunes atoms with the uppercased
// key as the name.
func writeM4A(path string, ws writeSet) error {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer mp4.Close()

	custom := make(map[string]string, len(ws.Extended))
	for key, value := range ws.Extended {
		if vorbisSkippedKeys[key] {
			continue
		}
		custom[strings.ToUpper(key)] = value
	}

	mp4Tags := &mp4tag.MP4Tags{
		Artist: ws.Artist,
		Album:  ws.Album,
		Title:  ws.TrackTitle,
		Custom: custom,
	}
	if ws.Year > 0 {
		mp4Tags.Date = strconv.Itoa(ws.Year)
	}

	// The container exposes no picture inventory through go-mp4tag, so
	// the cover is only inserted when no image can be detected at all.
	if len(ws.Cover) > 0 && !hasEmbeddedPicture(path) {
		mp4Tags.Pictures = []*mp4tag.MP4Picture{{Data: ws.Cover}}
	}

	if err := mp4.Write(mp4Tags, nil); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
