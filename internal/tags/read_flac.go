package tags

import (
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// readFLACExtended reads the Vorbis comment block of a FLAC file,
// filling any fields dhowden/tag could not provide plus the embedded
// MusicBrainz release id.
func readFLACExtended(path string, t *Tag) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return
	}

	var cmts *flacvorbis.MetaDataBlockVorbisComment
	for _, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			if parsed, parseErr := flacvorbis.ParseFromMetaDataBlock(*meta); parseErr == nil {
				cmts = parsed
			}
			break
		}
	}
	if cmts == nil {
		return
	}

	get := func(key string) string {
		values, getErr := cmts.Get(key)
		if getErr != nil || len(values) == 0 {
			return ""
		}
		return values[0]
	}

	if t.Title == "" {
		t.Title = get(flacvorbis.FIELD_TITLE)
	}
	if t.Artist == "" {
		t.Artist = get(flacvorbis.FIELD_ARTIST)
	}
	if t.Album == "" {
		t.Album = get(flacvorbis.FIELD_ALBUM)
	}
	if date := get("DATE"); date != "" {
		t.Date = date
	}

	t.MBReleaseID = get("MUSICBRAINZ_ALBUMID")
}
