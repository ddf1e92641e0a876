package musicbrainz

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	coverArtBaseURL   = "https://coverartarchive.org"
	coverFetchTimeout = 5 * time.Second
)

// CoverArtURL returns the deterministic front-cover URL for a release.
// The URL is constructed without contacting the archive; whether an
// image actually exists there is only known once it is fetched.
func CoverArtURL(releaseMBID string) string {
	return fmt.Sprintf("%s/release/%s/front", coverArtBaseURL, releaseMBID)
}

// FetchCoverArt downloads cover art from the given URL. Any failure,
// including a non-200 response, returns nil data: a missing cover
// never fails an album.
func (c *Client) FetchCoverArt(coverURL string) []byte {
	c.pacer.wait()

	req, err := http.NewRequest(http.MethodGet, coverURL, http.NoBody)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	client := &http.Client{Timeout: coverFetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return data
}
