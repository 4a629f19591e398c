// Package memory is a process-local implementation of the trip, location and
// account stores, used by tests and by serve --in-memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"travelplanner/internal/domain/models"
	"travelplanner/internal/repositories"
)

// Store keeps everything in maps behind one mutex. Append and Reorder hold the
// lock for the whole operation, which serializes writers per trip the same
// way the MySQL row lock does.
type Store struct {
	mu         sync.Mutex
	trips      map[string]models.Trip
	locations  map[string][]models.Location
	accounts   map[string]models.Account
	identities map[string]models.OAuthIdentity

	// Fail, when set, is returned by every call.
	Fail error
}

func New() *Store {
	return &Store{
		trips:      map[string]models.Trip{},
		locations:  map[string][]models.Location{},
		accounts:   map[string]models.Account{},
		identities: map[string]models.OAuthIdentity{},
	}
}

func (m *Store) CreateTrip(_ context.Context, t models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.trips[t.ID] = t
	return nil
}

func (m *Store) ListTripsByOwner(_ context.Context, ownerID string) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	out := []models.Trip{}
	for _, t := range m.trips {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (m *Store) GetTrip(_ context.Context, id string) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return models.Trip{}, m.Fail
	}
	t, ok := m.trips[id]
	if !ok {
		return models.Trip{}, repositories.ErrNotFound
	}
	return t, nil
}

func (m *Store) ListByTrip(_ context.Context, tripID string) ([]models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	out := append([]models.Location{}, m.locations[tripID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *Store) Append(_ context.Context, loc models.Location) (models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return models.Location{}, m.Fail
	}
	if _, ok := m.trips[loc.TripID]; !ok {
		return models.Location{}, repositories.ErrNotFound
	}
	loc.Order = len(m.locations[loc.TripID])
	m.locations[loc.TripID] = append(m.locations[loc.TripID], loc)
	return loc, nil
}

func (m *Store) Reorder(_ context.Context, tripID string, orderedIDs []string, validate func(current []string) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	if _, ok := m.trips[tripID]; !ok {
		return repositories.ErrNotFound
	}
	locs := append([]models.Location{}, m.locations[tripID]...)
	sort.SliceStable(locs, func(i, j int) bool { return locs[i].Order < locs[j].Order })
	current := make([]string, 0, len(locs))
	for _, l := range locs {
		current = append(current, l.ID)
	}
	if validate != nil {
		if err := validate(current); err != nil {
			return err
		}
	}
	pos := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		pos[id] = i
	}
	for i := range locs {
		if p, ok := pos[locs[i].ID]; ok {
			locs[i].Order = p
		}
	}
	m.locations[tripID] = locs
	return nil
}

func (m *Store) GetByEmail(_ context.Context, email string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return models.Account{}, m.Fail
	}
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Account{}, repositories.ErrNotFound
}

func (m *Store) GetByID(_ context.Context, id string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return models.Account{}, m.Fail
	}
	a, ok := m.accounts[id]
	if !ok {
		return models.Account{}, repositories.ErrNotFound
	}
	return a, nil
}

func (m *Store) Create(_ context.Context, a models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return repositories.ErrDuplicate
		}
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *Store) FindIdentity(_ context.Context, provider, providerAccountID string) (models.OAuthIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return models.OAuthIdentity{}, m.Fail
	}
	id, ok := m.identities[provider+"/"+providerAccountID]
	if !ok {
		return models.OAuthIdentity{}, repositories.ErrNotFound
	}
	return id, nil
}

func (m *Store) LinkIdentity(_ context.Context, identity models.OAuthIdentity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	key := identity.Provider + "/" + identity.ProviderAccountID
	if _, ok := m.identities[key]; !ok {
		m.identities[key] = identity
	}
	return nil
}

// AccountCount reports how many accounts exist.
func (m *Store) AccountCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}
