package music

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"memorybook/internal/model"
)

const (
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
	DefaultAPIURL   = "https://api.spotify.com/v1"
	DefaultMarket   = "BR"

	requestTimeout = 10 * time.Second
)

// SpotifyClient searches the Spotify Web API with the client-credentials flow.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	market       string
	tokenURL     string
	apiURL       string
	http         *http.Client
	tokens       *TokenCache
}

// SpotifyOption customizes a SpotifyClient.
type SpotifyOption func(*SpotifyClient)

// WithEndpoints points the client at different token and API base URLs.
func WithEndpoints(tokenURL, apiURL string) SpotifyOption {
	return func(c *SpotifyClient) {
		c.tokenURL = tokenURL
		c.apiURL = strings.TrimRight(apiURL, "/")
	}
}

// WithHTTPClient replaces the traced default HTTP client.
func WithHTTPClient(hc *http.Client) SpotifyOption {
	return func(c *SpotifyClient) { c.http = hc }
}

// WithMarket sets the market used to filter search results.
func WithMarket(market string) SpotifyOption {
	return func(c *SpotifyClient) {
		if market != "" {
			c.market = market
		}
	}
}

func NewSpotifyClient(clientID, clientSecret string, opts ...SpotifyOption) *SpotifyClient {
	c := &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		market:       DefaultMarket,
		tokenURL:     DefaultTokenURL,
		apiURL:       DefaultAPIURL,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	c.tokens = NewTokenCache(c.fetchToken)
	return c
}

var _ Searcher = (*SpotifyClient)(nil)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *SpotifyClient) fetchToken(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: token request: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: token request: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", 0, fmt.Errorf("%w: decode token: %v", ErrProviderUnavailable, err)
	}
	if tr.ExpiresIn <= 0 {
		tr.ExpiresIn = 3600
	}
	return tr.AccessToken, time.Duration(tr.ExpiresIn) * time.Second, nil
}

type searchResponse struct {
	Tracks struct {
		Items []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"items"`
	} `json:"tracks"`
}

// SearchTracks runs a track search. A rejected token is dropped so the next call
// fetches a new one.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"q":      {query},
		"type":   {"track"},
		"limit":  {strconv.Itoa(limit)},
		"market": {c.market},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate()
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: search: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode search: %v", ErrProviderUnavailable, err)
	}

	out := make([]model.Track, 0, len(sr.Tracks.Items))
	for _, it := range sr.Tracks.Items {
		names := make([]string, 0, len(it.Artists))
		for _, a := range it.Artists {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		t := model.Track{
			ID:          it.ID,
			Name:        it.Name,
			Artists:     strings.Join(names, ", "),
			ExternalURL: it.ExternalURLs.Spotify,
		}
		if len(it.Album.Images) > 0 {
			img := it.Album.Images[0].URL
			t.AlbumImage = &img
		}
		if t.ExternalURL == "" && t.ID != "" {
			t.ExternalURL = TrackURL(t.ID)
		}
		out = append(out, t)
	}
	return out, nil
}
