package api

import (
	"log"
	stdhttp "net/http"

	intconfig "travelplanner/internal/config"
	"travelplanner/internal/http/handlers"
	"travelplanner/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	requireAuth := middleware.RequireAuth(h.Sessions)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
		auth.POST("/signout", h.SignOut)
		auth.GET("/oauth/:provider", h.OAuthRedirect)
		auth.GET("/oauth/:provider/callback", h.OAuthCallback)
		auth.GET("/me", requireAuth, h.Me)

		// Trips and their itineraries
		trips := api.Group("/trips", requireAuth)
		trips.GET("", h.ListTrips)
		trips.POST("", h.CreateTrip)
		trips.GET("/:id", h.GetTrip)
		trips.POST("/:id/locations", h.AppendLocation)
		trips.PUT("/:id/locations/order", h.ReorderLocations)
		trips.GET("/:id/itinerary.pdf", h.ItineraryPDF)
	}

	return r
}
