package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"penguindash/internal/config"
	"penguindash/internal/dataset"
	apierrors "penguindash/internal/errors"
	"penguindash/internal/filter"
	"penguindash/internal/infrastructure"
	customMiddleware "penguindash/internal/middleware"
	"penguindash/internal/services"
	"penguindash/internal/session"
	handlers "penguindash/internal/transport/http"
	ws "penguindash/internal/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Palmer Penguins Dashboard"
)

// BuildTime is set at compile time
var BuildTime = "dev"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	WebFS         fs.FS

	Dataset   *dataset.Provider
	Sessions  *session.Store
	Dashboard *services.DashboardService
	Health    *services.HealthService
	Hub       *ws.Hub

	errorHandler *apierrors.ErrorHandler
}

// New wires every component. A dataset that cannot be loaded is an error:
// the dashboard has nothing to show without it.
func New(cfg *config.Config, logger *slog.Logger, webFS fs.FS) (*Application, error) {
	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		WebFS:         webFS,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}

	if err := a.initializeServices(); err != nil {
		return nil, err
	}
	if err := a.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	provider, err := dataset.OpenProvider(a.Config.DatasetPath(), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	a.Dataset = provider

	a.Sessions = session.NewStore(a.Config.Session.IdleTTL, a.Metrics, a.Logger)
	memo := filter.NewMemo(provider.Get(), a.Config.Session.MemoCapacity, a.Metrics)
	a.Dashboard = services.NewDashboardService(provider, a.Sessions, memo, a.Metrics, a.Logger)

	wsMetrics, err := ws.NewOTelMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}
	a.Hub = ws.NewHub(a.Logger, a.Metrics, wsMetrics)
	a.Dashboard.SetPublisher(a.Hub)

	a.Health = services.NewHealthService(Version, BuildTime, provider, a.Sessions, a.Hub, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	// Order: RequestID → RealIP → OTel → Logger → Recoverer → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return err
	}
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.MetricsMiddleware(a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.errorHandler, func(r *http.Request, _ interface{}) {
		customMiddleware.RecordSystemError(r.Context(), "http")
	}))
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	var page *handlers.HTMLHandler
	if a.WebFS != nil {
		page, err = handlers.NewHTMLHandler(a.WebFS, handlers.PageData{
			Title:     AppName,
			Version:   Version,
			BuildTime: BuildTime,
		}, a.Logger)
		if err != nil {
			return err
		}
		r.With(customMiddleware.Compress(5)).Get("/static/*", page.ServeStatic)
	}

	// Probes and monitoring carry no session
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(render.SetContentType(render.ContentTypeJSON))
		a.setupHealthRoutes(r)
	})

	// Everything below belongs to a browser session
	r.Group(func(r chi.Router) {
		r.Use(handlers.SessionCtx(a.Dashboard, a.Config.Session.CookieName, a.Logger))

		// /ws is long-lived and stays outside the request timeout
		r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", a.websocketHandler())

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
			if page != nil {
				r.Get("/", page.ServeIndex)
			}
			a.setupDashboardRoutes(r)
		})
	})

	a.Router = r
	return nil
}

// setupHealthRoutes configures health and version endpoints
func (a *Application) setupHealthRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	r.Get("/api/health", healthHandler.HealthCheck)
	r.Get("/api/health/ready", healthHandler.ReadinessCheck)
	r.Get("/api/health/live", healthHandler.LivenessCheck)
	r.Get("/api/health/stats", healthHandler.Stats)
	r.Get("/api/version", healthHandler.Version)
	r.Get("/api/ws/stats", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, a.Hub.Stats())
	})
}

// setupDashboardRoutes configures the session-bound API
func (a *Application) setupDashboardRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		validation := customMiddleware.NewValidationMiddleware(a.Logger, a.errorHandler, 0)
		r.Use(validation.ValidateRequest)
		r.Use(customMiddleware.ContentTypeValidator("application/json"))
		r.Use(customMiddleware.AuditLog(a.Logger, func(r *http.Request) string {
			return handlers.SessionIDFromContext(r.Context())
		}))

		dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger, a.errorHandler)
		r.Mount("/api/dashboard", dashboardHandler.Routes())
		r.Post("/api/logs", handlers.NewClientLogHandler(a.Logger).Handle)
	})
}

func (a *Application) websocketHandler() http.Handler {
	return ws.NewHandler(a.Hub, a.Dashboard, func(r *http.Request) string {
		return handlers.SessionIDFromContext(r.Context())
	}, ws.HandlerConfig{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		AllowedOrigins:  a.Config.Security.AllowedOrigins,
		Client: ws.ClientConfig{
			PingPeriod: a.Config.WebSocket.PingPeriod,
			PongWait:   a.Config.WebSocket.PongWait,
		},
	}, a.Logger)
}

// getCORSConfig returns CORS configuration
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"},
		ExposedHeaders:   []string{customMiddleware.RequestIDHeader, "X-Total-Count", "Content-Disposition"},
		AllowCredentials: true,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until ctx is cancelled or the server fails, then shuts down
// gracefully
func (a *Application) Run(ctx context.Context) error {
	a.Hub.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "server listening",
			slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)),
			slog.Int("dataset_rows", a.Dataset.Get().Len()))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.Sessions.Run(gctx, a.Config.Session.SweepInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		return a.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	a.Hub.Stop()

	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}
