package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	intconfig "travelplanner/internal/config"
	intdb "travelplanner/internal/db"
	"travelplanner/internal/geocode"
	router "travelplanner/internal/http"
	"travelplanner/internal/http/handlers"
	"travelplanner/internal/oauth"
	"travelplanner/internal/repositories"
	"travelplanner/internal/repositories/memory"
	"travelplanner/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	serveMigrate  bool
	serveInMemory bool
)

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "create missing tables before serving")
	serveCmd.Flags().BoolVar(&serveInMemory, "in-memory", false, "keep data in process memory instead of MySQL (development only)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	env, err := intconfig.LoadEnv()
	if err != nil {
		return err
	}
	if err := env.ValidateServe(); err != nil {
		return err
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	var h *handlers.Handler
	if serveInMemory {
		log.Println("serving from in-memory store; data is lost on exit")
		h = newHandler(env, stores{trips: memory.New()})
	} else {
		conn, err := intconfig.ConnectDB(env)
		if err != nil {
			return err
		}
		defer conn.Close()

		if serveMigrate {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			err := intdb.Migrate(ctx, conn)
			cancel()
			if err != nil {
				return err
			}
		}
		h = newHandler(env, mysqlStores(conn))
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router.NewRouter(env, h),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("server stopped")
	return nil
}

// stores groups the persistence backends. A nil field falls back to trips,
// which must then implement every store interface.
type stores struct {
	trips     services.TripStore
	locations services.LocationStore
	accounts  services.AccountStore
	db        handlers.Pinger
}

func mysqlStores(conn *sqlx.DB) stores {
	return stores{
		trips:     repositories.TripRepository{DB: conn},
		locations: repositories.LocationRepository{DB: conn},
		accounts:  repositories.AccountRepository{DB: conn},
		db:        conn,
	}
}

func newHandler(env intconfig.Env, s stores) *handlers.Handler {
	if s.locations == nil {
		s.locations = s.trips.(services.LocationStore)
	}
	if s.accounts == nil {
		s.accounts = s.trips.(services.AccountStore)
	}
	geocoder := geocode.NewNominatimClient(env.GeocoderURL, env.GeocoderUserAgent, env.GeocoderRPS)

	h := &handlers.Handler{
		Trips:         services.TripService{Trips: s.trips, Locations: s.locations, Geocoder: geocoder},
		Ordering:      services.OrderingService{Trips: s.trips, Locations: s.locations},
		Accounts:      services.AccountService{Accounts: s.accounts},
		Sessions:      services.SessionService{Secret: []byte(env.JWTSecret)},
		OAuth:         oauth.RegistryFromEnv(env),
		CookieSecure:  env.CookieSecure,
		AfterLoginURL: strings.TrimRight(env.OAuthRedirectBase, "/") + "/",
	}
	if s.db != nil {
		h.DB = s.db
	}
	return h
}
