package models

import "time"

// Trip is a planned journey owned by one account.
type Trip struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"ownerId"`
	Name        string    `db:"name" json:"tripName"`
	Destination string    `db:"destination" json:"destination"`
	Country     *string   `db:"country" json:"country,omitempty"`
	State       *string   `db:"state" json:"state,omitempty"`
	Category    *string   `db:"category" json:"category,omitempty"`
	StartDate   time.Time `db:"start_date" json:"startDate"`
	EndDate     time.Time `db:"end_date" json:"endDate"`
	ImageURL    *string   `db:"image_url" json:"imageUrl,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// TripWithLocations is a trip plus its itinerary sorted by Order.
type TripWithLocations struct {
	Trip
	Locations []Location `json:"locations"`
}

// TripInput carries the fields accepted when creating a trip.
// Dates are YYYY-MM-DD or RFC 3339.
type TripInput struct {
	Name        string `json:"tripName"`
	Destination string `json:"destination"`
	Country     string `json:"country"`
	State       string `json:"state"`
	Category    string `json:"category"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	ImageURL    string `json:"imageUrl"`
	OwnerID     string `json:"-"`
}
