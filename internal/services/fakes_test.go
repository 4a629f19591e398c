package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"travelplanner/internal/geocode"
	"travelplanner/internal/repositories/memory"
)

func newMemStore() *memory.Store { return memory.New() }

// fakeGeocoder resolves addresses from a fixed table.
type fakeGeocoder struct {
	mu      sync.Mutex
	places  map[string]geocode.Result
	failErr error
	calls   int
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (geocode.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.failErr != nil {
		return geocode.Result{}, g.failErr
	}
	if r, ok := g.places[strings.ToLower(address)]; ok {
		return r, nil
	}
	return geocode.Result{}, geocode.ErrNoMatch
}

func (g *fakeGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

var errStoreDown = errors.New("dial tcp 10.0.0.5:3306: connect: connection refused")
