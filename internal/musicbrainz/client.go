package musicbrainz

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL   = "https://musicbrainz.org/ws/2"
	defaultUserAgent = "tagsmith/1.0 (+https://example.org/tagsmith)"

	// MusicBrainz allows roughly one request per second; pace a little
	// slower than that to stay clear of the limit.
	paceInterval = 1100 * time.Millisecond

	requestTimeout = 10 * time.Second

	// Retry configuration for transient failures (503 or network error).
	maxRetries     = 3
	initialBackoff = time.Second

	searchLimit       = 10
	manualSearchLimit = 50

	// inc parameter for release lookups. The resolve-by-id path also
	// wants folksonomy tags and genres.
	incDetail       = "recordings+artist-credits+labels+isrcs+release-groups+url-rels"
	incDetailTagged = incDetail + "+tags+genres"
)

// ErrNoResponse is returned when every attempt at a request failed
// without producing an HTTP response.
var ErrNoResponse = errors.New("no response from MusicBrainz")

// StatusError is a non-200, non-retriable response from the API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return "API status " + strconv.Itoa(e.StatusCode)
}

// pacer spaces outbound requests so that no two leave less than
// interval apart, no matter how many goroutines share the client.
// The clock and sleep functions are swappable for tests.
type pacer struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
}

func newPacer(interval time.Duration) *pacer {
	return &pacer{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// wait blocks until the next request slot, holding the lock so that
// concurrent callers serialize behind it.
func (p *pacer) wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if elapsed := p.now().Sub(p.last); elapsed < p.interval {
		p.sleep(p.interval - elapsed)
	}
	p.last = p.now()
}

// Client provides access to the MusicBrainz API. All requests through
// one Client share a single connection pool and a single pacer, so a
// batch of concurrent identifications still respects the rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	pacer      *pacer

	// sleep is used between retry attempts; swappable for tests.
	sleep func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the client identifier sent to the API.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithBaseURL points the client at a different endpoint, used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// NewClient creates a new MusicBrainz API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		pacer:      newPacer(paceInterval),
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchQuery carries the fields of a release search.
type SearchQuery struct {
	Artist  string
	Release string
	Year    int // optional, 0 means unknown
}

// lucene renders the query in MusicBrainz Lucene syntax. Artist and
// release are required phrase matches; the year narrows when known.
func (q SearchQuery) lucene() string {
	query := fmt.Sprintf("artist:%q AND release:%q", escapePhrase(q.Artist), escapePhrase(q.Release))
	if q.Year > 0 {
		query += fmt.Sprintf(" AND date:%q", strconv.Itoa(q.Year))
	}
	return query
}

// escapePhrase strips characters that would break out of a quoted
// Lucene phrase.
func escapePhrase(s string) string {
	return strings.NewReplacer(`"`, ``, `\`, ``).Replace(s)
}

// SearchReleases queries the release search endpoint and returns the
// raw candidate list, unfiltered. Transient failures (503, network
// errors) are retried with exponential backoff.
func (c *Client) SearchReleases(q SearchQuery) ([]Release, error) {
	return c.search(q, searchLimit)
}

// SearchReleasesManual is the wider search used by a human operator
// picking a release by hand.
func (c *Client) SearchReleasesManual(q SearchQuery) ([]Release, error) {
	return c.search(q, manualSearchLimit)
}

func (c *Client) search(q SearchQuery, limit int) ([]Release, error) {
	params := url.Values{}
	params.Set("query", q.lucene())
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))

	var result searchResponse
	if err := c.getJSON(c.baseURL+"/release?"+params.Encode(), true, &result); err != nil {
		return nil, err
	}
	return result.Releases, nil
}

// GetRelease fetches the release detail document with recordings,
// artist credits, labels, ISRCs, release group and URL relations.
func (c *Client) GetRelease(mbid string) (*ReleaseDetail, error) {
	return c.getRelease(mbid, incDetail)
}

// GetReleaseTagged fetches the detail document including folksonomy
// tags and genres, used by the resolve-by-id path.
func (c *Client) GetReleaseTagged(mbid string) (*ReleaseDetail, error) {
	return c.getRelease(mbid, incDetailTagged)
}

func (c *Client) getRelease(mbid, inc string) (*ReleaseDetail, error) {
	params := url.Values{}
	params.Set("fmt", "json")
	params.Set("inc", inc)

	var detail ReleaseDetail
	// Detail lookups are single-shot; the caller decides whether a
	// failure here is fatal.
	if err := c.getJSON(c.baseURL+"/release/"+mbid+"?"+params.Encode(), false, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// getJSON performs a paced GET and decodes the JSON body. A non-200
// response is returned as *StatusError. With retry enabled, 503 and
// network errors are retried up to maxRetries times; exhausting every
// attempt without a response yields ErrNoResponse.
func (c *Client) getJSON(reqURL string, retry bool, out any) error {
	req, err := http.NewRequest(http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, retry)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do executes the request behind the pacer. When retry is set, a 503
// response or a network error is retried with doubling backoff; any
// other response exits the loop immediately.
func (c *Client) do(req *http.Request, retry bool) (*http.Response, error) {
	attempts := 1
	if retry {
		attempts = maxRetries + 1
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.sleep(backoff)
			backoff *= 2
		}

		c.pacer.wait()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusServiceUnavailable && attempt < attempts-1 {
			resp.Body.Close()
			lastErr = &StatusError{StatusCode: resp.StatusCode}
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrNoResponse, lastErr)
}
