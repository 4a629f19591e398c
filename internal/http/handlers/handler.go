package handlers

import (
	"context"

	"travelplanner/internal/http/middleware"
	"travelplanner/internal/oauth"
	"travelplanner/internal/services"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler carries the service templates shared by all requests. Each request
// works on a copy tagged with its request ID.
type Handler struct {
	Trips        services.TripService
	Ordering     services.OrderingService
	Accounts     services.AccountService
	Sessions     services.SessionService
	OAuth        *oauth.Registry
	DB           Pinger
	CookieSecure bool
	// AfterLoginURL is where the OAuth callback sends the browser.
	AfterLoginURL string
}

func (h *Handler) tripService(c *gin.Context) services.TripService {
	svc := h.Trips
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) orderingService(c *gin.Context) services.OrderingService {
	svc := h.Ordering
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) accountService(c *gin.Context) services.AccountService {
	svc := h.Accounts
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}
