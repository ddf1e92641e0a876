package tagger

import (
	"regexp"
	"strconv"
)

// filenameTrackPattern matches a leading track number, optionally
// preceded by a disc prefix ("1-02" or "102" are out of scope; plain
// "02 - Title.mp3" and "02.Title.flac" are what rippers produce).
var filenameTrackPattern = regexp.MustCompile(`^(\d{1,3})\b`)

// filenameTrackNumber extracts the track number a ripper encoded at
// the start of the filename.
func filenameTrackNumber(filename string) (int, bool) {
	m := filenameTrackPattern.FindStringSubmatch(filename)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
