package services

import (
	"context"

	"travelplanner/internal/domain/models"
)

// TripStore persists trips. Lookups of missing rows return repositories.ErrNotFound.
type TripStore interface {
	CreateTrip(ctx context.Context, t models.Trip) error
	ListTripsByOwner(ctx context.Context, ownerID string) ([]models.Trip, error)
	GetTrip(ctx context.Context, id string) (models.Trip, error)
}

// LocationStore persists itinerary stops. Append and Reorder must each be
// atomic and serialized per trip.
type LocationStore interface {
	ListByTrip(ctx context.Context, tripID string) ([]models.Location, error)
	Append(ctx context.Context, loc models.Location) (models.Location, error)
	Reorder(ctx context.Context, tripID string, orderedIDs []string, validate func(current []string) error) error
}

// AccountStore persists accounts and their OAuth links.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
	Create(ctx context.Context, a models.Account) error
	FindIdentity(ctx context.Context, provider, providerAccountID string) (models.OAuthIdentity, error)
	LinkIdentity(ctx context.Context, identity models.OAuthIdentity) error
}
