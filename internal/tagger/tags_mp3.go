package tagger

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"

	// UFID owner namespaces for the MusicBrainz identifier frames.
	mbRecordingOwner = "http://musicbrainz.org"
	mbTrackOwner     = "http://musicbrainz.org/track"
)

// id3FrameTable maps canonical keys onto standard ID3 frames. Keys not
// listed here land in a TXXX frame with the uppercased key as the
// description.
var id3FrameTable = map[string]string{
	"label":        "TPUB",
	"copyright":    "TCOP",
	"isrc":         "TSRC",
	"originaldate": "TDOR",
}

// id3SkippedKeys are reserved for the standard disc/track-number
// frames and are not rewritten here, so existing numbering in the
// files is never corrupted.
var id3SkippedKeys = map[string]bool{
	"totaldiscs":  true,
	"discnumber":  true,
	"totaltracks": true,
}

// writeID3 writes the write-set into an MP3 file's ID3v2 tag.
// Existing frames other than the ones being written are preserved.
func writeID3(path string, ws writeSet) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer tag.Close()

	// ID3v2.4 with UTF-8 for proper Unicode support.
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetArtist(ws.Artist)
	tag.SetAlbum(ws.Album)
	if ws.TrackTitle != "" {
		tag.SetTitle(ws.TrackTitle)
	}
	if ws.Year > 0 {
		setTextFrame(tag, "TDRC", strconv.Itoa(ws.Year))
	}

	// Deterministic frame order keeps repeated runs byte-stable.
	keys := make([]string, 0, len(ws.Extended))
	for key := range ws.Extended {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := ws.Extended[key]
		switch {
		case id3SkippedKeys[key]:
			// Reserved for TRCK/TPOS, left alone.
		case key == "musicbrainz_recordingid":
			setUFIDFrame(tag, mbRecordingOwner, value)
		case key == "musicbrainz_trackid":
			setUFIDFrame(tag, mbTrackOwner, value)
		default:
			if frameID, ok := id3FrameTable[key]; ok {
				setTextFrame(tag, frameID, value)
			} else {
				setTXXXFrame(tag, strings.ToUpper(key), value)
			}
		}
	}

	writeID3Cover(tag, ws.Cover)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

// writeID3Cover applies the embedded-cover policy: two or more
// existing pictures are duplicate state and are purged before exactly
// one new front cover goes in; a single existing picture is preserved
// untouched; otherwise the new cover is inserted.
func writeID3Cover(tag *id3v2.Tag, cover []byte) {
	if len(cover) == 0 {
		return
	}

	pictureID := tag.CommonID("Attached picture")
	existing := tag.GetFrames(pictureID)

	if len(existing) == 1 {
		return
	}
	if len(existing) > 1 {
		tag.DeleteFrames(pictureID)
	}

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    detectMimeType(cover),
		PictureType: id3v2.PTFrontCover,
		Description: "Front Cover",
		Picture:     cover,
	})
}

// setTextFrame replaces any existing frame with the given ID.
func setTextFrame(tag *id3v2.Tag, frameID, value string) {
	tag.DeleteFrames(frameID)
	tag.AddTextFrame(frameID, id3v2.EncodingUTF8, value)
}

// setTXXXFrame replaces the user-defined text frame with the given
// description.
func setTXXXFrame(tag *id3v2.Tag, description, value string) {
	frameID := tag.CommonID("User defined text information frame")
	kept := make([]id3v2.Framer, 0)
	for _, frame := range tag.GetFrames(frameID) {
		if udt, ok := frame.(id3v2.UserDefinedTextFrame); ok && udt.Description == description {
			continue
		}
		kept = append(kept, frame)
	}
	tag.DeleteFrames(frameID)
	for _, frame := range kept {
		tag.AddFrame(frameID, frame)
	}

	tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: description,
		Value:       value,
	})
}

// setUFIDFrame replaces the unique-identifier frame with the given
// owner.
func setUFIDFrame(tag *id3v2.Tag, owner, value string) {
	kept := make([]id3v2.Framer, 0)
	for _, frame := range tag.GetFrames("UFID") {
		if ufid, ok := frame.(id3v2.UFIDFrame); ok && ufid.OwnerIdentifier == owner {
			continue
		}
		kept = append(kept, frame)
	}
	tag.DeleteFrames("UFID")
	for _, frame := range kept {
		tag.AddFrame("UFID", frame)
	}

	tag.AddFrame("UFID", id3v2.UFIDFrame{
		OwnerIdentifier: owner,
		Identifier:      []byte(value),
	})
}

// detectMimeType detects the MIME type of image data, defaulting to
// JPEG for anything unrecognized.
func detectMimeType(data []byte) string {
	switch http.DetectContentType(data) {
	case mimePNG:
		return mimePNG
	default:
		return mimeJPEG
	}
}
