package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NominatimClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewNominatimClient(srv.URL, "travelplanner-test", 1000)
}

func TestGeocodeReturnsFirstPlace(t *testing.T) {
	var gotQuery, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"35.66","lon":"139.70","display_name":"Shibuya, Tokyo, Japan"},{"lat":"1","lon":"2","display_name":"other"}]`))
	})

	res, err := c.Geocode(context.Background(), "  Shibuya, Tokyo ")
	require.NoError(t, err)
	assert.Equal(t, "Shibuya, Tokyo", gotQuery)
	assert.Equal(t, "travelplanner-test", gotUA)
	assert.InDelta(t, 35.66, res.Lat, 1e-9)
	assert.InDelta(t, 139.70, res.Lng, 1e-9)
	assert.Equal(t, "Shibuya, Tokyo, Japan", res.DisplayName)
}

func TestGeocodeNoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.Geocode(context.Background(), "nowhere at all")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestGeocodeUpstreamFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Geocode(context.Background(), "Tokyo")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoMatch))
}

func TestGeocodeRejectsMalformedCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"139.70","display_name":"x"}]`))
	})

	_, err := c.Geocode(context.Background(), "Tokyo")
	require.Error(t, err)
}

func TestGeocodeFallsBackToAddressForDisplayName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"48.85","lon":"2.35"}]`))
	})

	res, err := c.Geocode(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", res.DisplayName)
}

func TestGeocodeWaitsForLimiterAndHonoursContext(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"35.66","lon":"139.70","display_name":"Shibuya"}]`))
	}))
	t.Cleanup(srv.Close)
	// One token per 1000 seconds: after the first call the bucket stays empty.
	c := NewNominatimClient(srv.URL, "travelplanner-test", 0.001)

	_, err := c.Geocode(context.Background(), "Shibuya")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Geocode(ctx, "Shibuya")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "wait for rate limiter")

	ctx, cancel = context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = c.Geocode(ctx, "Shibuya")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wait for rate limiter")
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, int32(1), hits.Load())
}
