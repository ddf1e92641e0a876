package identify

import (
	"sort"

	"tagsmith/internal/musicbrainz"
)

// pickCandidate ranks score-filtered search candidates and returns the
// winner. Track-count fidelity is a stronger identity signal than the
// textual match score, so candidates are ordered by:
//
//  1. absolute difference between declared track count and the local
//     file count, smaller first,
//  2. presence of front cover art in the archive,
//  3. raw upstream match score, higher first.
//
// The sort is stable so equal candidates keep their response order.
func pickCandidate(fileCount int, candidates []musicbrainz.Release) musicbrainz.Release {
	ranked := make([]musicbrainz.Release, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := trackCountDiff(ranked[i], fileCount), trackCountDiff(ranked[j], fileCount)
		if di != dj {
			return di < dj
		}
		ci, cj := ranked[i].HasFrontCover(), ranked[j].HasFrontCover()
		if ci != cj {
			return ci
		}
		return ranked[i].Score > ranked[j].Score
	})

	return ranked[0]
}

func trackCountDiff(r musicbrainz.Release, fileCount int) int {
	diff := r.TrackCount - fileCount
	if diff < 0 {
		diff = -diff
	}
	return diff
}
