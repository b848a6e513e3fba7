package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/streamline-io/streamline/internal/auth"
	"github.com/streamline-io/streamline/internal/config"
	"github.com/streamline-io/streamline/internal/keepalive"
	"github.com/streamline-io/streamline/internal/models"
	"github.com/streamline-io/streamline/internal/tmdb"
)

// Accounts signs users up and in
type Accounts interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (*models.User, error)
}

// Searcher runs searches and manages the per-user history
type Searcher interface {
	Search(ctx context.Context, userID string, kind models.ContentKind, query string) ([]tmdb.Result, error)
	List(ctx context.Context, userID string) ([]models.HistoryEntry, error)
	Delete(ctx context.Context, userID string, contentID int64) error
}

// Catalog is the browse side of the metadata API
type Catalog interface {
	Trending(ctx context.Context, kind models.ContentKind) (*tmdb.Page, error)
	Trailers(ctx context.Context, kind models.ContentKind, id string) (*tmdb.Page, error)
	Details(ctx context.Context, kind models.ContentKind, id string) (*tmdb.Page, error)
	Similar(ctx context.Context, kind models.ContentKind, id string) (*tmdb.Page, error)
	Category(ctx context.Context, kind models.ContentKind, category string) (*tmdb.Page, error)
	Discover(ctx context.Context, kind models.ContentKind, region string) (*tmdb.Page, error)
}

// AssetSigner hands out download URLs for static assets held in a bucket
type AssetSigner interface {
	PresignAsset(ctx context.Context, name string) (string, error)
}

// Deps are the collaborators the handlers call into. Assets may be nil.
type Deps struct {
	Accounts Accounts
	Sessions *auth.Sessions
	Search   Searcher
	Catalog  Catalog
	Assets   AssetSigner
}

type Api struct {
	Config *config.Config
	Router *chi.Mux

	logger    *slog.Logger
	accounts  Accounts
	sessions  *auth.Sessions
	search    Searcher
	catalog   Catalog
	assets    AssetSigner
	pickIndex func(n int) int
}

func NewApi(cfg *config.Config, deps Deps, logger *slog.Logger) (*Api, error) {
	if cfg.Port == 0 {
		return nil, errors.New("Must have at least a port to start API")
	}
	if deps.Accounts == nil || deps.Sessions == nil || deps.Search == nil || deps.Catalog == nil {
		return nil, errors.New("accounts, sessions, search and catalog are required")
	}

	api := &Api{
		Config:    cfg,
		Router:    chi.NewRouter(),
		logger:    logger,
		accounts:  deps.Accounts,
		sessions:  deps.Sessions,
		search:    deps.Search,
		catalog:   deps.Catalog,
		assets:    deps.Assets,
		pickIndex: rand.IntN,
	}
	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.requestLogger())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/heartbeat"))

	r.Get("/ping", api.Ping)
	r.Get("/avatars/{file}", api.Avatar)
	// stored user images are root paths like /avatar1.png
	for _, image := range auth.Avatars {
		r.Get(image, api.Avatar)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", api.SignupHandler)
			r.Post("/login", api.LoginHandler)
			r.Post("/logout", api.LogoutHandler)
			r.Get("/authCheck", api.protect(api.AuthCheckHandler))
		})

		r.Route("/search", func(r chi.Router) {
			for _, kind := range []models.ContentKind{models.KindPerson, models.KindMovie, models.KindTV} {
				r.Get("/"+string(kind)+"/{query}", api.protect(api.SearchHandler(kind)))
			}
			r.Get("/history", api.protect(api.HistoryHandler))
			r.Delete("/history/{id}", api.protect(api.DeleteHistoryHandler))
		})

		r.Route("/movie", api.browseRoutes(models.KindMovie))
		r.Route("/tv", api.browseRoutes(models.KindTV))

		r.Route("/home", func(r chi.Router) {
			r.Get("/us/movies", api.HomeHandler(models.KindMovie, "US"))
			r.Get("/us/tvshows", api.HomeHandler(models.KindTV, "US"))
			r.Get("/global/movies", api.HomeHandler(models.KindMovie, ""))
			r.Get("/global/tvshows", api.HomeHandler(models.KindTV, ""))
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			api.writeError(w, http.StatusNotFound, "Not Found")
		})
	})

	if !api.Config.IsDevelopment() {
		r.Get("/*", api.StaticHandler)
	}
}

func (api *Api) browseRoutes(kind models.ContentKind) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/trending", api.protect(api.TrendingHandler(kind)))
		r.Get("/{id}/trailers", api.protect(api.TrailersHandler(kind)))
		r.Get("/{id}/details", api.protect(api.DetailsHandler(kind)))
		r.Get("/{id}/similar", api.protect(api.SimilarHandler(kind)))
		r.Get("/{category}", api.protect(api.CategoryHandler(kind)))
	}
}

// Serve listens on the configured port until ctx is cancelled.
func (api *Api) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", api.Config.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return api.ServeListener(ctx, ln)
}

// ServeListener serves on ln and shuts down gracefully once ctx is done.
func (api *Api) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if api.Config.Keepalive.Enabled {
		baseURL := api.Config.Keepalive.BaseURL
		if baseURL == "" {
			baseURL = "http://" + ln.Addr().String()
		}
		go keepalive.NewPinger(baseURL, api.Config.Keepalive.Interval, api.logger).Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		api.logger.Info("starting API server", "addr", ln.Addr().String(), "env", api.Config.Env)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		api.logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Ping is the liveness probe the keepalive worker hits.
func (api *Api) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Server is alive"))
}
