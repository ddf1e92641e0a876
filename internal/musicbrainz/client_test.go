package musicbrainz

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/synctest"
	"time"
)

func TestPacer_FirstRequestNoWait(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := newPacer(paceInterval)

		start := time.Now()
		p.wait()
		elapsed := time.Since(start)

		// First request should not wait
		if elapsed > 10*time.Millisecond {
			t.Errorf("first request waited %v, expected no wait", elapsed)
		}
	})
}

func TestPacer_EnforcesInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := newPacer(paceInterval)

		p.wait()

		// Immediate second request should wait ~1.1 seconds
		start := time.Now()
		p.wait()
		elapsed := time.Since(start)

		if elapsed < time.Second {
			t.Errorf("second request only waited %v, expected ~%v", elapsed, paceInterval)
		}
	})
}

func TestPacer_NoWaitAfterDelay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := newPacer(paceInterval)

		p.wait()

		// Wait more than the pace interval
		time.Sleep(paceInterval + 100*time.Millisecond)

		start := time.Now()
		p.wait()
		elapsed := time.Since(start)

		if elapsed > 10*time.Millisecond {
			t.Errorf("request after delay waited %v, expected no wait", elapsed)
		}
	})
}

func TestPacer_MultipleRequests(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := newPacer(paceInterval)

		start := time.Now()

		// Make 5 requests
		for range 5 {
			p.wait()
		}

		elapsed := time.Since(start)

		// First is instant, then 4 waits of ~1.1s each
		if elapsed < 4*paceInterval {
			t.Errorf("5 requests took %v, expected at least %v", elapsed, 4*paceInterval)
		}
	})
}

// mockTransport is a mock http.RoundTripper for testing.
type mockTransport struct {
	responses []*http.Response
	errors    []error
	callCount int
}

func (m *mockTransport) RoundTrip(*http.Request) (*http.Response, error) {
	idx := m.callCount
	m.callCount++

	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return nil, errors.New("no more responses configured")
}

func newMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newMockClient(mock *mockTransport) *Client {
	return &Client{
		httpClient: &http.Client{Transport: mock},
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		pacer:      newPacer(paceInterval),
		sleep:      time.Sleep,
	}
}

func TestClient_SearchReleases_ParsesResponse(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		body := `{
			"releases": [
				{
					"id": "abc-123",
					"title": "Animals",
					"score": 97,
					"track-count": 5,
					"artist-credit": [{"name": "Pink Floyd", "artist": {"id": "a1", "name": "Pink Floyd"}}],
					"cover-art-archive": {"front": true}
				}
			]
		}`
		mock := &mockTransport{
			responses: []*http.Response{newMockResponse(http.StatusOK, body)},
		}
		c := newMockClient(mock)

		releases, err := c.SearchReleases(SearchQuery{Artist: "Pink Floyd", Release: "Animals"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(releases) != 1 {
			t.Fatalf("len(releases) = %d, want 1", len(releases))
		}
		r := releases[0]
		if r.ID != "abc-123" {
			t.Errorf("ID = %q, want %q", r.ID, "abc-123")
		}
		if r.Score != 97 {
			t.Errorf("Score = %d, want 97", r.Score)
		}
		if r.TrackCount != 5 {
			t.Errorf("TrackCount = %d, want 5", r.TrackCount)
		}
		if got := r.CreditedArtist(); got != "Pink Floyd" {
			t.Errorf("CreditedArtist() = %q, want %q", got, "Pink Floyd")
		}
		if !r.HasFrontCover() {
			t.Error("HasFrontCover() = false, want true")
		}
	})
}

func TestClient_SearchReleases_RetriesOn503(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		mock := &mockTransport{
			responses: []*http.Response{
				newMockResponse(http.StatusServiceUnavailable, ""),
				newMockResponse(http.StatusServiceUnavailable, ""),
				newMockResponse(http.StatusServiceUnavailable, ""),
				newMockResponse(http.StatusOK, `{"releases": []}`),
			},
		}
		c := newMockClient(mock)

		start := time.Now()
		releases, err := c.SearchReleases(SearchQuery{Artist: "a", Release: "b"})
		elapsed := time.Since(start)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if releases == nil {
			t.Fatal("expected non-nil release list")
		}
		if mock.callCount != 4 {
			t.Errorf("callCount = %d, want 4", mock.callCount)
		}

		// Backoff between attempts: 1s + 2s + 4s = 7s minimum
		if elapsed < 7*time.Second {
			t.Errorf("elapsed = %v, expected at least 7s for backoff", elapsed)
		}
	})
}

func TestClient_SearchReleases_LastAttempt503Surfaces(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		mock := &mockTransport{
			responses: []*http.Response{
				newMockResponse(http.StatusServiceUnavailable, ""),
				newMockResponse(http.StatusServiceUnavailable, ""),
				newMockResponse(http.StatusServiceUnavailable, ""),
				newMockResponse(http.StatusServiceUnavailable, ""),
			},
		}
		c := newMockClient(mock)

		_, err := c.SearchReleases(SearchQuery{Artist: "a", Release: "b"})
		if err == nil {
			t.Fatal("expected error")
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("error = %v, want *StatusError", err)
		}
		if statusErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusServiceUnavailable)
		}
		if mock.callCount != 4 {
			t.Errorf("callCount = %d, want 4 (initial + 3 retries)", mock.callCount)
		}
	})
}

func TestClient_SearchReleases_NetworkErrorsExhaustRetries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		netErr := errors.New("connection refused")
		mock := &mockTransport{
			errors: []error{netErr, netErr, netErr, netErr},
		}
		c := newMockClient(mock)

		_, err := c.SearchReleases(SearchQuery{Artist: "a", Release: "b"})
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if !errors.Is(err, ErrNoResponse) {
			t.Errorf("error = %v, want ErrNoResponse", err)
		}
		if mock.callCount != 4 {
			t.Errorf("callCount = %d, want 4 (initial + 3 retries)", mock.callCount)
		}
	})
}

func TestClient_GetRelease_NoRetry(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		mock := &mockTransport{
			responses: []*http.Response{newMockResponse(http.StatusNotFound, "")},
		}
		c := newMockClient(mock)

		_, err := c.GetRelease("missing-mbid")
		if err == nil {
			t.Fatal("expected error")
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("error = %v, want *StatusError", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusNotFound)
		}
		if mock.callCount != 1 {
			t.Errorf("callCount = %d, want 1 (detail lookups are single-shot)", mock.callCount)
		}
	})
}

func TestSearchQuery_Lucene(t *testing.T) {
	tests := []struct {
		name  string
		query SearchQuery
		want  string
	}{
		{
			name:  "artist and release",
			query: SearchQuery{Artist: "Pink Floyd", Release: "Animals"},
			want:  `artist:"Pink Floyd" AND release:"Animals"`,
		},
		{
			name:  "with year",
			query: SearchQuery{Artist: "Pink Floyd", Release: "Animals", Year: 1977},
			want:  `artist:"Pink Floyd" AND release:"Animals" AND date:"1977"`,
		},
		{
			name:  "quotes stripped",
			query: SearchQuery{Artist: `The "Band"`, Release: `Back\slash`},
			want:  `artist:"The Band" AND release:"Backslash"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.lucene(); got != tt.want {
				t.Errorf("lucene() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCoverArtURL(t *testing.T) {
	got := CoverArtURL("abc-123")
	want := "https://coverartarchive.org/release/abc-123/front"
	if got != want {
		t.Errorf("CoverArtURL() = %q, want %q", got, want)
	}
}

func TestClient_FetchCoverArt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/release/good/front":
			_, _ = w.Write([]byte("image-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient()

	if got := c.FetchCoverArt(srv.URL + "/release/good/front"); string(got) != "image-bytes" {
		t.Errorf("FetchCoverArt() = %q, want %q", got, "image-bytes")
	}
	if got := c.FetchCoverArt(srv.URL + "/release/missing/front"); got != nil {
		t.Errorf("FetchCoverArt() on 404 = %v, want nil", got)
	}
}
