package identify

import (
	"strconv"
	"strings"

	"tagsmith/internal/domain"
	"tagsmith/internal/musicbrainz"
)

// normalizeDetail flattens a release detail document into the canonical
// album-level mapping and the per-track metadata list spanning all
// media. Keys with empty values are never stored; absence of data is
// represented by absence of the key.
func normalizeDetail(d *musicbrainz.ReleaseDetail) (meta map[string]string, tracks []map[string]string, year int) {
	meta = make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			meta[key] = value
		}
	}

	put("musicbrainz_albumid", d.ID)
	put("barcode", d.Barcode)
	put("asin", d.ASIN)
	put("releasestatus", d.Status)
	put("releasecountry", d.Country)

	if d.TextRepresentation != nil {
		put("script", d.TextRepresentation.Script)
	}

	if len(d.LabelInfo) > 0 {
		li := d.LabelInfo[0]
		if li.Label != nil {
			put("label", li.Label.Name)
			put("catalognumber", li.CatalogNumber)
		}
	}

	put("date", d.Date)
	put("originaldate", d.Date)
	year = leadingYear(d.Date)

	if rg := d.ReleaseGroup; rg != nil {
		put("musicbrainz_releasegroupid", rg.ID)
		put("musicbrainz_primarytype", rg.PrimaryType)
		put("releasetype", rg.PrimaryType)

		// The release group's first release date wins over the
		// release's own date for originaldate.
		if rg.FirstReleaseDate != "" {
			meta["originaldate"] = rg.FirstReleaseDate
			if len(rg.FirstReleaseDate) >= 4 {
				put("originalyear", rg.FirstReleaseDate[:4])
			}
		}
	}

	if len(d.ArtistCredit) > 0 {
		first := d.ArtistCredit[0]
		put("musicbrainz_artistid", first.Artist.ID)
		put("musicbrainz_albumartistid", first.Artist.ID)
		put("albumartist", first.Artist.Name)

		sortNames := make([]string, 0, len(d.ArtistCredit))
		names := make([]string, 0, len(d.ArtistCredit))
		for _, ac := range d.ArtistCredit {
			if ac.Artist.SortName != "" {
				sortNames = append(sortNames, ac.Artist.SortName)
			}
			if ac.Artist.Name != "" {
				names = append(names, ac.Artist.Name)
			}
		}
		put("artistsort", strings.Join(sortNames, "; "))
		put("artists", strings.Join(names, "; "))
	}

	if len(d.Tags) > 0 {
		joined := joinTagNames(d.Tags)
		put("genre", joined)
		put("tags", joined)
	}
	// A dedicated genres field, when present, overrides the tag-derived
	// genre value.
	if len(d.Genres) > 0 {
		put("genre", joinTagNames(d.Genres))
	}

	if len(d.Media) > 0 {
		put("totaldiscs", strconv.Itoa(len(d.Media)))

		first := d.Media[0]
		put("media", first.Format)
		pos := first.Position
		if pos == 0 {
			pos = 1
		}
		put("discnumber", strconv.Itoa(pos))
		if first.TrackCount > 0 {
			put("totaltracks", strconv.Itoa(first.TrackCount))
		}

		for _, m := range d.Media {
			for _, t := range m.Tracks {
				tm := make(map[string]string)
				putTrack := func(key, value string) {
					if value != "" {
						tm[key] = value
					}
				}
				putTrack("musicbrainz_trackid", t.ID)
				putTrack("title", t.Title)
				if len(t.ArtistCredit) > 0 {
					putTrack("artist", t.ArtistCredit[0].Name)
				}
				if t.Recording != nil {
					putTrack("musicbrainz_recordingid", t.Recording.ID)
				}
				tracks = append(tracks, tm)
			}
		}
	}

	return meta, tracks, year
}

// applyDetail merges normalized detail metadata into the album.
func applyDetail(album *domain.Album, d *musicbrainz.ReleaseDetail) {
	meta, tracks, year := normalizeDetail(d)
	album.ExtendedMetadata = meta
	album.TracksMetadata = tracks
	if year > 0 {
		album.Year = year
	}
}

// leadingYear parses the leading 4 digits of a release date, returning
// 0 when the date does not start with a numeric year.
func leadingYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func joinTagNames(tags []musicbrainz.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return strings.Join(names, "; ")
}
