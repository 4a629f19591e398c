package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	intdb "travelplanner/internal/db"
	"travelplanner/internal/domain"
	"travelplanner/internal/domain/models"
	"travelplanner/internal/geocode"
	"travelplanner/internal/repositories"
	"travelplanner/internal/utils"
)

// Column widths of the trips and locations tables, in characters.
const (
	maxTripTextLen = 255
	maxURLLen      = 1024
	maxAddressLen  = 1024
)

// TripService handles trip creation, retrieval and itinerary appends.
type TripService struct {
	Trips     TripStore
	Locations LocationStore
	Geocoder  geocode.Geocoder
	RequestID string
	Now       func() time.Time
	NewID     func() string
}

// CreateTrip validates the input and stores a new trip, returning its ID.
func (s TripService) CreateTrip(ctx context.Context, in models.TripInput) (string, error) {
	required := []struct{ field, value string }{
		{"tripName", in.Name},
		{"destination", in.Destination},
		{"startDate", in.StartDate},
		{"endDate", in.EndDate},
		{"ownerId", in.OwnerID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return "", domain.ValidationError{Field: r.field, Msg: "is required"}
		}
	}
	bounded := []struct {
		field, value string
		max          int
	}{
		{"tripName", in.Name, maxTripTextLen},
		{"destination", in.Destination, maxTripTextLen},
		{"country", in.Country, maxTripTextLen},
		{"state", in.State, maxTripTextLen},
		{"category", in.Category, maxTripTextLen},
		{"imageUrl", in.ImageURL, maxURLLen},
	}
	for _, b := range bounded {
		if utf8.RuneCountInString(strings.TrimSpace(b.value)) > b.max {
			return "", domain.ValidationError{Field: b.field, Msg: fmt.Sprintf("must be at most %d characters", b.max)}
		}
	}
	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return "", domain.ValidationError{Field: "startDate", Msg: err.Error(), Err: err}
	}
	end, err := utils.ParseDate(in.EndDate)
	if err != nil {
		return "", domain.ValidationError{Field: "endDate", Msg: err.Error(), Err: err}
	}

	now := nowOr(s.Now)
	trip := models.Trip{
		ID:          newIDOr(s.NewID),
		OwnerID:     in.OwnerID,
		Name:        strings.TrimSpace(in.Name),
		Destination: strings.TrimSpace(in.Destination),
		Country:     intdb.NullIfEmpty(strings.TrimSpace(in.Country)),
		State:       intdb.NullIfEmpty(strings.TrimSpace(in.State)),
		Category:    intdb.NullIfEmpty(strings.TrimSpace(in.Category)),
		StartDate:   start,
		EndDate:     end,
		ImageURL:    intdb.NullIfEmpty(strings.TrimSpace(in.ImageURL)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Trips.CreateTrip(ctx, trip); err != nil {
		return "", storeError(s.RequestID, "trip", "create_trip", err)
	}

	utils.LogEvent(s.RequestID, "trip", "create_trip", fmt.Sprintf("trip_id=%s owner_id=%s", trip.ID, trip.OwnerID))
	return trip.ID, nil
}

// GetTripsForOwner returns the owner's trips sorted by start date together
// with the upcoming subset relative to the service clock.
func (s TripService) GetTripsForOwner(ctx context.Context, ownerID string) (TripPartition, error) {
	if strings.TrimSpace(ownerID) == "" {
		return TripPartition{}, domain.ValidationError{Field: "ownerId", Msg: "is required"}
	}
	trips, err := s.Trips.ListTripsByOwner(ctx, ownerID)
	if err != nil {
		return TripPartition{}, storeError(s.RequestID, "trip", "list_trips", err)
	}
	sort.SliceStable(trips, func(i, j int) bool { return trips[i].StartDate.Before(trips[j].StartDate) })
	return PartitionTrips(trips, nowOr(s.Now)), nil
}

// GetTripByID returns the trip and its stops in order. A non-empty callerID
// restricts access to the owner.
func (s TripService) GetTripByID(ctx context.Context, callerID, tripID string) (models.TripWithLocations, error) {
	trip, err := loadOwnedTrip(ctx, s.Trips, s.RequestID, callerID, tripID)
	if err != nil {
		return models.TripWithLocations{}, err
	}
	locs, err := s.Locations.ListByTrip(ctx, tripID)
	if err != nil {
		return models.TripWithLocations{}, storeError(s.RequestID, "trip", "list_locations", err)
	}
	if locs == nil {
		locs = []models.Location{}
	}
	sort.SliceStable(locs, func(i, j int) bool { return locs[i].Order < locs[j].Order })
	return models.TripWithLocations{Trip: trip, Locations: locs}, nil
}

// AppendLocation geocodes address and adds it as the last stop of the trip.
func (s TripService) AppendLocation(ctx context.Context, callerID, tripID, address string) (models.TripWithLocations, error) {
	address = utils.NormalizeSpace(address)
	if address == "" {
		return models.TripWithLocations{}, domain.ValidationError{Field: "address", Msg: "is required"}
	}
	if utf8.RuneCountInString(address) > maxAddressLen {
		return models.TripWithLocations{}, domain.ValidationError{Field: "address", Msg: fmt.Sprintf("must be at most %d characters", maxAddressLen)}
	}
	if _, err := loadOwnedTrip(ctx, s.Trips, s.RequestID, callerID, tripID); err != nil {
		return models.TripWithLocations{}, err
	}
	if s.Geocoder == nil {
		return models.TripWithLocations{}, domain.GeocodeError{Address: address, Err: errors.New("no geocoder configured")}
	}

	place, err := s.Geocoder.Geocode(ctx, address)
	if err != nil {
		utils.LogError(s.RequestID, "trip", "geocode", err)
		return models.TripWithLocations{}, domain.GeocodeError{Address: address, Err: err}
	}

	loc, err := s.Locations.Append(ctx, models.Location{
		ID:        newIDOr(s.NewID),
		TripID:    tripID,
		Lat:       place.Lat,
		Lng:       place.Lng,
		Title:     utils.FirstNonEmpty(place.DisplayName, address),
		CreatedAt: nowOr(s.Now),
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return models.TripWithLocations{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return models.TripWithLocations{}, storeError(s.RequestID, "trip", "append_location", err)
	}

	utils.LogEvent(s.RequestID, "trip", "append_location", fmt.Sprintf("trip_id=%s location_id=%s order=%d", tripID, loc.ID, loc.Order))
	return s.GetTripByID(ctx, callerID, tripID)
}
