package handlers

import (
	"fmt"
	"net/http"

	"travelplanner/internal/domain/models"
	"travelplanner/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type appendLocationRequest struct {
	Address string `json:"address"`
}

type reorderRequest struct {
	LocationIDs []string `json:"locationIds"`
}

// GET /api/trips
func (h *Handler) ListTrips(c *gin.Context) {
	p, err := h.tripService(c).GetTripsForOwner(c.Request.Context(), middleware.GetCallerID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trips":         p.All,
		"upcomingTrips": p.Upcoming,
		"summary":       p.Summary(),
	})
}

// POST /api/trips
func (h *Handler) CreateTrip(c *gin.Context) {
	var in models.TripInput
	if !BindJSONOrError(c, &in) {
		return
	}
	in.OwnerID = middleware.GetCallerID(c)
	id, err := h.tripService(c).CreateTrip(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GET /api/trips/:id
func (h *Handler) GetTrip(c *gin.Context) {
	trip, err := h.tripService(c).GetTripByID(c.Request.Context(), middleware.GetCallerID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// POST /api/trips/:id/locations
func (h *Handler) AppendLocation(c *gin.Context) {
	var req appendLocationRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	trip, err := h.tripService(c).AppendLocation(c.Request.Context(), middleware.GetCallerID(c), c.Param("id"), req.Address)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// PUT /api/trips/:id/locations/order
func (h *Handler) ReorderLocations(c *gin.Context) {
	var req reorderRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.LocationIDs == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "locationIds is required", nil)
		return
	}
	callerID, tripID := middleware.GetCallerID(c), c.Param("id")
	if err := h.orderingService(c).Reorder(c.Request.Context(), callerID, tripID, req.LocationIDs); err != nil {
		RespondDomainError(c, err)
		return
	}
	trip, err := h.tripService(c).GetTripByID(c.Request.Context(), callerID, tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GET /api/trips/:id/itinerary.pdf
func (h *Handler) ItineraryPDF(c *gin.Context) {
	pdf, filename, err := h.tripService(c).ItineraryPDF(c.Request.Context(), middleware.GetCallerID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
