package tags

import (
	"github.com/bogem/id3v2/v2"
)

// readMP3Extended reads ID3v2 frames that dhowden/tag does not expose
// and fills gaps left by UTF-16 encoded tags it fails to parse.
func readMP3Extended(path string, t *Tag) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer id3tag.Close()

	if t.Title == "" {
		t.Title = id3tag.Title()
	}
	if t.Artist == "" {
		t.Artist = id3tag.Artist()
	}
	if t.Album == "" {
		t.Album = id3tag.Album()
	}

	// Prefer the full date frame over the year dhowden/tag reports.
	if date := getTextFrame(id3tag, "TDRC"); date != "" {
		t.Date = date
	} else if year := getTextFrame(id3tag, "TYER"); year != "" && t.Date == "" {
		t.Date = year
	}

	// Picard writes the release id as a TXXX frame.
	t.MBReleaseID = getTXXXFrame(id3tag, "MusicBrainz Album Id")
	if t.MBReleaseID == "" {
		t.MBReleaseID = getTXXXFrame(id3tag, "MUSICBRAINZ_ALBUMID")
	}
}

// getTextFrame returns the first text frame value for the frame ID.
func getTextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

// getTXXXFrame returns the value of the user-defined text frame with
// the given description.
func getTXXXFrame(id3tag *id3v2.Tag, description string) string {
	for _, frame := range id3tag.GetFrames(id3tag.CommonID("User defined text information frame")) {
		if udt, ok := frame.(id3v2.UserDefinedTextFrame); ok {
			if udt.Description == description {
				return udt.Value
			}
		}
	}
	return ""
}
