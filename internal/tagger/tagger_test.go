package tagger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"tagsmith/internal/domain"
)

// fakeFetcher is a coverFetcher returning canned bytes.
type fakeFetcher struct {
	data  []byte
	calls int
}

func (f *fakeFetcher) FetchCoverArt(string) []byte {
	f.calls++
	return f.data
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func matchedAlbum() domain.Album {
	return domain.Album{
		Title:  "Animals",
		Artist: "Pink Floyd",
		Year:   1977,
		Files: []domain.MusicFile{
			{Filename: "01 Pigs on the Wing 1.mp3", Extension: ".mp3"},
			{Filename: "02 Dogs.mp3", Extension: ".mp3"},
		},
		ExtendedMetadata: map[string]string{
			"label":               "Harvest",
			"musicbrainz_albumid": "rel-1",
		},
		TracksMetadata: []map[string]string{
			{"title": "Pigs on the Wing 1", "musicbrainz_trackid": "t-1"},
			{"title": "Dogs", "musicbrainz_trackid": "t-2", "artist": "Pink Floyd"},
		},
		Status: domain.Match,
	}
}

func TestBuildWriteSet_MergesTrackOverAlbum(t *testing.T) {
	tg := New(nil, testLogger(), Options{})
	album := matchedAlbum()
	album.ExtendedMetadata["musicbrainz_trackid"] = "album-level-junk"

	ws := tg.buildWriteSet(album, 0)

	if ws.Artist != "Pink Floyd" {
		t.Errorf("Artist = %q, want %q", ws.Artist, "Pink Floyd")
	}
	if ws.Album != "Animals" {
		t.Errorf("Album = %q, want %q", ws.Album, "Animals")
	}
	if ws.TrackTitle != "Pigs on the Wing 1" {
		t.Errorf("TrackTitle = %q, want %q", ws.TrackTitle, "Pigs on the Wing 1")
	}
	if ws.Year != 1977 {
		t.Errorf("Year = %d, want 1977", ws.Year)
	}
	if got := ws.Extended["musicbrainz_trackid"]; got != "t-1" {
		t.Errorf("Extended[musicbrainz_trackid] = %q, want track-level %q", got, "t-1")
	}
	if got := ws.Extended["label"]; got != "Harvest" {
		t.Errorf("Extended[label] = %q, want %q", got, "Harvest")
	}
	// title and artist are lifted out of the mapping.
	if _, ok := ws.Extended["title"]; ok {
		t.Error("Extended carries title, want lifted out")
	}
	if _, ok := ws.Extended["artist"]; ok {
		t.Error("Extended carries artist, want lifted out")
	}
}

func TestBuildWriteSet_TrackArtistOverridesAlbumArtist(t *testing.T) {
	tg := New(nil, testLogger(), Options{})
	album := matchedAlbum()
	album.TracksMetadata[1]["artist"] = "Pink Floyd feat. Nobody"

	ws := tg.buildWriteSet(album, 1)

	if ws.Artist != "Pink Floyd feat. Nobody" {
		t.Errorf("Artist = %q, want track-level artist", ws.Artist)
	}
}

func TestBuildWriteSet_FileBeyondTrackList(t *testing.T) {
	tg := New(nil, testLogger(), Options{})
	album := matchedAlbum()
	album.Files = append(album.Files, domain.MusicFile{Filename: "03 Extra.mp3", Extension: ".mp3"})

	ws := tg.buildWriteSet(album, 2)

	if ws.TrackTitle != "" {
		t.Errorf("TrackTitle = %q, want empty for unmatched file", ws.TrackTitle)
	}
	if got := ws.Extended["label"]; got != "Harvest" {
		t.Errorf("Extended[label] = %q, album-level tags should still apply", got)
	}
}

func TestTrackForFile_Strict(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		index     int
		wantTrack bool
	}{
		{"numbered filename at matching position", "02 Dogs.mp3", 1, true},
		{"numbered filename at wrong position", "07 Dogs.mp3", 1, false},
		{"no leading number", "Dogs.mp3", 1, false},
		{"zero track number", "00 Intro.mp3", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := New(nil, testLogger(), Options{StrictTrackMatch: true})
			album := matchedAlbum()
			album.Files[tt.index].Filename = tt.filename

			track := tg.trackForFile(album, tt.index)

			if tt.wantTrack && track == nil {
				t.Error("trackForFile() = nil, want track metadata")
			}
			if !tt.wantTrack && track != nil {
				t.Errorf("trackForFile() = %v, want nil", track)
			}
		})
	}
}

func TestTrackForFile_PositionalDefault(t *testing.T) {
	tg := New(nil, testLogger(), Options{})
	album := matchedAlbum()
	// No leading number at all; positional pairing still applies.
	album.Files[1].Filename = "Dogs.mp3"

	track := tg.trackForFile(album, 1)

	if track == nil {
		t.Fatal("trackForFile() = nil, want positional match")
	}
	if track["musicbrainz_trackid"] != "t-2" {
		t.Errorf("track id = %q, want %q", track["musicbrainz_trackid"], "t-2")
	}
}

func TestResolveCover_LocalWinsOverFetch(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(coverPath, []byte("local-image"), 0o600); err != nil {
		t.Fatalf("write cover: %v", err)
	}

	fetcher := &fakeFetcher{data: []byte("remote-image")}
	tg := New(fetcher, testLogger(), Options{})

	album := matchedAlbum()
	album.LocalCoverPath = coverPath
	album.CoverArtURL = "https://coverartarchive.org/release/rel-1/front"

	got := tg.resolveCover(album)

	if string(got) != "local-image" {
		t.Errorf("resolveCover() = %q, want local image", got)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", fetcher.calls)
	}
}

func TestResolveCover_FetchesWhenNoLocal(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("remote-image")}
	tg := New(fetcher, testLogger(), Options{})

	album := matchedAlbum()
	album.CoverArtURL = "https://coverartarchive.org/release/rel-1/front"

	got := tg.resolveCover(album)

	if string(got) != "remote-image" {
		t.Errorf("resolveCover() = %q, want remote image", got)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestResolveCover_UnreadableLocalFallsBack(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("remote-image")}
	tg := New(fetcher, testLogger(), Options{})

	album := matchedAlbum()
	album.LocalCoverPath = filepath.Join(t.TempDir(), "missing.jpg")
	album.CoverArtURL = "https://coverartarchive.org/release/rel-1/front"

	if got := tg.resolveCover(album); string(got) != "remote-image" {
		t.Errorf("resolveCover() = %q, want remote image", got)
	}
}

func TestResolveCover_NoSources(t *testing.T) {
	tg := New(nil, testLogger(), Options{})

	if got := tg.resolveCover(matchedAlbum()); got != nil {
		t.Errorf("resolveCover() = %v, want nil", got)
	}
}

func TestTagAll_SkipsUnresolvedAlbums(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "01 Track.mp3")
	raw := []byte("not really audio")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	album := matchedAlbum()
	album.Files = []domain.MusicFile{{Filename: "01 Track.mp3", Path: path, Extension: ".mp3"}}

	for _, status := range []domain.Status{domain.Pending, domain.Unclear, domain.NotFound, domain.APIError("503")} {
		album.Status = status

		tg := New(nil, testLogger(), Options{})
		got := tg.TagAll([]domain.Album{album})

		if got[0].Status != status {
			t.Errorf("status = %v, want %v passed through", got[0].Status, status)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if string(data) != string(raw) {
			t.Errorf("file modified for status %v", status)
		}
	}
}

func TestTagAlbum_SkipsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "01 Track.wav")
	raw := []byte("RIFF....WAVE")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	album := matchedAlbum()
	album.Files = []domain.MusicFile{{Filename: "01 Track.wav", Path: path, Extension: ".wav"}}

	tg := New(nil, testLogger(), Options{})
	got := tg.TagAlbum(album)

	if got.Files[0].Artist != "" {
		t.Errorf("Artist = %q, want empty for skipped file", got.Files[0].Artist)
	}
	data, _ := os.ReadFile(path)
	if string(data) != string(raw) {
		t.Error("unsupported file was modified")
	}
}
