package services

import (
	"context"
	"errors"
	"time"

	"travelplanner/internal/domain"
	"travelplanner/internal/domain/models"
	"travelplanner/internal/repositories"
	"travelplanner/internal/utils"

	"github.com/google/uuid"
)

func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return utils.NowUTC()
}

func newIDOr(newID func() string) string {
	if newID != nil {
		return newID()
	}
	return uuid.NewString()
}

// storeError logs a collaborator failure and converts it to the caller-facing kind.
func storeError(requestID, module, op string, err error) error {
	utils.LogError(requestID, module, op, err)
	return domain.PersistenceError{Op: op, Err: err}
}

// loadOwnedTrip fetches a trip and hides it when callerID is set and differs
// from the owner.
func loadOwnedTrip(ctx context.Context, trips TripStore, requestID, callerID, tripID string) (models.Trip, error) {
	if tripID == "" {
		return models.Trip{}, domain.ValidationError{Field: "tripId", Msg: "is required"}
	}
	trip, err := trips.GetTrip(ctx, tripID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return models.Trip{}, storeError(requestID, "trip", "get_trip", err)
	}
	if callerID != "" && trip.OwnerID != callerID {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	return trip, nil
}
