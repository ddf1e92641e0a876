package tagger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// vorbisSkippedKeys mirrors the ID3 policy: disc/track numbering is
// never rewritten.
var vorbisSkippedKeys = map[string]bool{
	"totaldiscs":  true,
	"discnumber":  true,
	"totaltracks": true,
}

// writeFLAC writes the write-set as Vorbis comments into a FLAC file.
// Comments other than the keys being written survive; extended keys go
// in verbatim.
func writeFLAC(path string, ws writeSet) error {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	written := vorbisComments(ws)

	cmts := flacvorbis.New()
	cmtIdx := -1
	for i, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			cmtIdx = i
			if existing, parseErr := flacvorbis.ParseFromMetaDataBlock(*meta); parseErr == nil {
				// Carry over comments we are not replacing.
				for _, comment := range existing.Comments {
					key, _, ok := strings.Cut(comment, "=")
					if ok && !writtenKey(written, key) {
						cmts.Comments = append(cmts.Comments, comment)
					}
				}
			}
			break
		}
	}

	keys := make([]string, 0, len(written))
	for key := range written {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := cmts.Add(key, written[key]); err != nil {
			return fmt.Errorf("add %s: %w", key, err)
		}
	}

	cmtBlock := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &cmtBlock
	} else {
		f.Meta = append(f.Meta, &cmtBlock)
	}

	if err := writeFLACCover(f, ws.Cover); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

// vorbisComments flattens the write-set into the comment key/value
// pairs to store.
func vorbisComments(ws writeSet) map[string]string {
	out := make(map[string]string, len(ws.Extended)+4)

	out["ARTIST"] = ws.Artist
	out["ALBUM"] = ws.Album
	if ws.TrackTitle != "" {
		out["TITLE"] = ws.TrackTitle
	}
	if ws.Year > 0 {
		out["DATE"] = strconv.Itoa(ws.Year)
	}

	for key, value := range ws.Extended {
		if vorbisSkippedKeys[key] {
			continue
		}
		out[key] = value
	}
	return out
}

// writtenKey reports whether the comment key collides with one being
// written, case-insensitively as Vorbis comment keys are.
func writtenKey(written map[string]string, key string) bool {
	for k := range written {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// writeFLACCover applies the embedded-cover policy to a FLAC file's
// picture blocks: duplicates are purged and replaced with one front
// cover, a single existing picture is preserved, a missing one is
// inserted.
func writeFLACCover(f *goflac.File, cover []byte) error {
	if len(cover) == 0 {
		return nil
	}

	pictures := 0
	for _, meta := range f.Meta {
		if meta.Type == goflac.Picture {
			pictures++
		}
	}
	if pictures == 1 {
		return nil
	}
	if pictures > 1 {
		kept := make([]*goflac.MetaDataBlock, 0, len(f.Meta))
		for _, meta := range f.Meta {
			if meta.Type != goflac.Picture {
				kept = append(kept, meta)
			}
		}
		f.Meta = kept
	}

	pic, err := flacpicture.NewFromImageData(
		flacpicture.PictureTypeFrontCover,
		"Front Cover",
		cover,
		detectMimeType(cover),
	)
	if err != nil {
		return fmt.Errorf("create picture: %w", err)
	}
	picBlock := pic.Marshal()
	f.Meta = append(f.Meta, &picBlock)
	return nil
}
