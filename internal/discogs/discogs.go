// Package discogs queries the Discogs database for album release years.
package discogs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"refold/internal/lookup"
	"refold/internal/normalizer"
)

// APIURL is the Discogs database search endpoint.
const APIURL = "https://api.discogs.com/database/search"

const (
	// requestDelay spaces requests to stay inside the public rate limit.
	requestDelay = 1100 * time.Millisecond
	// requestTimeout bounds a single search call.
	requestTimeout = 10 * time.Second

	userAgent = "refold/1.1.1"
)

// ErrMissingToken is returned when no API token is configured.
var ErrMissingToken = errors.New("DISCOGS_TOKEN is not set")

// Client searches the Discogs database. Every search is preceded by a
// fixed delay so back-to-back lookups respect the rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	delay      time.Duration
}

// NewClient returns a Client authenticating with token. An empty token
// yields a client whose lookups fail with ErrMissingToken without touching
// the network.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    APIURL,
		token:      token,
		delay:      requestDelay,
	}
}

// Name implements lookup.Source.
func (c *Client) Name() string {
	return "Discogs"
}

// Find searches for the album as a master release and returns the year of
// the first result that carries one. The pre-request delay is skipped when
// the token is missing, so unconfigured runs stay fast.
func (c *Client) Find(ctx context.Context, q lookup.Query) lookup.Result {
	if c.token == "" {
		return lookup.Failed(ErrMissingToken)
	}

	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return lookup.Failed(ctx.Err())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return lookup.Failed(errors.Wrap(err, "building search request"))
	}

	params := url.Values{}
	params.Set("artist", normalizer.SearchTerm(q.Artist))
	params.Set("release_title", normalizer.SearchTerm(q.Album))
	params.Set("token", c.token)
	params.Set("type", "master")
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", userAgent)

	logrus.WithFields(logrus.Fields{
		"artist": q.Artist,
		"album":  q.Album,
	}).Debug("searching discogs")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return lookup.Failed(errors.Wrap(err, "discogs search"))
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("X-Discogs-Ratelimit-Remaining"); remaining != "" {
		logrus.WithField("remaining", remaining).Debug("discogs rate limit")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return lookup.Failed(errors.Errorf("discogs search: unexpected status %s", resp.Status))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return lookup.Failed(errors.Wrap(err, "decoding discogs response"))
	}

	for _, result := range payload.Results {
		if year := result.year(); year != "" {
			return lookup.Found(year)
		}
	}
	return lookup.NotFound()
}

// searchResponse mirrors the part of the search payload refold uses. The
// year arrives as a number or a string depending on the release.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Year interface{} `json:"year"`
}

func (r searchResult) year() string {
	switch v := r.Year.(type) {
	case string:
		return v
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.Itoa(int(v))
	default:
		return ""
	}
}
