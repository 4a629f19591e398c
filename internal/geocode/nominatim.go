// Package geocode resolves free-text addresses to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoMatch is returned when the service knows no place for the address.
var ErrNoMatch = errors.New("geocode: no match")

// Result is the strict internal shape of a geocoding answer.
type Result struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Geocoder resolves an address to a single best match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

const defaultTimeout = 10 * time.Second

// NominatimClient talks to a Nominatim-compatible /search endpoint.
type NominatimClient struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatimClient creates a client throttled to rps requests per second.
func NewNominatimClient(baseURL, userAgent string, rps float64) *NominatimClient {
	if rps <= 0 {
		rps = 1
	}
	return &NominatimClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *NominatimClient) Geocode(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, ErrNoMatch
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("geocode: wait for rate limiter: %w", err)
		}
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), http.NoBody)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocode: upstream status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Result{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(places) == 0 {
		return Result{}, ErrNoMatch
	}
	return places[0].toResult(address)
}

func (p nominatimPlace) toResult(address string) (Result, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil || lat < -90 || lat > 90 {
		return Result{}, fmt.Errorf("geocode: invalid latitude %q", p.Lat)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil || lng < -180 || lng > 180 {
		return Result{}, fmt.Errorf("geocode: invalid longitude %q", p.Lon)
	}
	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		name = address
	}
	return Result{Lat: lat, Lng: lng, DisplayName: name}, nil
}
