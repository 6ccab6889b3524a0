package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNoResult means the address resolved to nothing. The submission flow
// treats this as a hard failure, not a soft fallback.
var ErrNoResult = errors.New("no coordinates found for address")

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Client resolves postal addresses against the Nominatim search API. One
// attempt per call, bounded by the client timeout; retries are the caller's
// decision and currently nobody retries.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a single-line address. It returns ErrNoResult when the
// provider finds nothing and a plain error on transport failures.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, err
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocoder responded with status %d", res.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return Coordinates{}, fmt.Errorf("geocoder response: %w", err)
	}

	if len(results) == 0 {
		return Coordinates{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder longitude %q: %w", results[0].Lon, err)
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
