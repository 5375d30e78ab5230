package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/app"
	iauth "github.com/tylerquinn/scoutline/internal/auth"
	"github.com/tylerquinn/scoutline/internal/handlers"
	"github.com/tylerquinn/scoutline/internal/middleware"
	"github.com/tylerquinn/scoutline/internal/notifications"
	"github.com/tylerquinn/scoutline/internal/services"
	"github.com/tylerquinn/scoutline/internal/suggestions"
	"github.com/tylerquinn/scoutline/pkg/cache"
)

// Engine bundles the suggestion pipeline shared by routes and the scheduler.
type Engine struct {
	Dispatcher *suggestions.Dispatcher
	Surfacer   *suggestions.Surfacer
	Batch      *suggestions.DailyBatch
}

// NewEngine wires the suggestion rule evaluator, surfacer, dispatcher, and
// daily batch against the given store.
func NewEngine(db *gorm.DB, surfaceLimit int) (*Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("engine: database handle must be provided")
	}

	opts := []suggestions.SurfacerOption{}
	if surfaceLimit > 0 {
		opts = append(opts, suggestions.WithSurfaceLimit(surfaceLimit))
	}
	surfacer := suggestions.NewSurfacer(db, opts...)

	rules := suggestions.NewDefaultRules(db, time.Now)
	dispatcher, err := suggestions.NewDispatcher(rules, surfacer)
	if err != nil {
		return nil, err
	}

	batch, err := suggestions.NewDailyBatch(db, dispatcher)
	if err != nil {
		return nil, err
	}

	return &Engine{Dispatcher: dispatcher, Surfacer: surfacer, Batch: batch}, nil
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, engine *Engine, hub *notifications.Hub) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if engine == nil {
		return nil, fmt.Errorf("suggestion engine must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health(db))
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	resolver, err := middleware.NewCapabilityResolver(db, cache.New(cache.DefaultSweepInterval))
	if err != nil {
		return nil, err
	}

	// Services
	authService, err := services.NewAuthService(db, jwt, engine.Dispatcher)
	if err != nil {
		return nil, err
	}
	suggestionService, err := services.NewSuggestionService(db, engine.Dispatcher, engine.Surfacer)
	if err != nil {
		return nil, err
	}
	schoolService, err := services.NewSchoolService(db)
	if err != nil {
		return nil, err
	}
	interactionService, err := services.NewInteractionService(db, engine.Dispatcher)
	if err != nil {
		return nil, err
	}
	offerService, err := services.NewOfferService(db, engine.Dispatcher)
	if err != nil {
		return nil, err
	}
	familyService, err := services.NewFamilyService(db)
	if err != nil {
		return nil, err
	}
	notificationService, err := services.NewNotificationService(db, hub)
	if err != nil {
		return nil, err
	}

	// Handlers
	authHandler, err := handlers.NewAuthHandler(authService)
	if err != nil {
		return nil, err
	}
	suggestionHandler, err := handlers.NewSuggestionHandler(suggestionService)
	if err != nil {
		return nil, err
	}
	schoolHandler, err := handlers.NewSchoolHandler(schoolService)
	if err != nil {
		return nil, err
	}
	interactionHandler, err := handlers.NewInteractionHandler(interactionService)
	if err != nil {
		return nil, err
	}
	offerHandler, err := handlers.NewOfferHandler(offerService)
	if err != nil {
		return nil, err
	}
	familyHandler, err := handlers.NewFamilyHandler(familyService, resolver)
	if err != nil {
		return nil, err
	}
	notificationHandler, err := handlers.NewNotificationHandler(notificationService, hub)
	if err != nil {
		return nil, err
	}
	cronHandler, err := handlers.NewCronHandler(engine.Batch)
	if err != nil {
		return nil, err
	}

	// Authenticated API surface. Capability is resolved once per request and
	// consulted by RequireMutator on write routes.
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt), middleware.ResolveCapability(resolver))

	registerAuthRoutes(r, api, authHandler)
	registerSuggestionRoutes(api, suggestionHandler)
	registerSchoolRoutes(api, schoolHandler)
	registerInteractionRoutes(api, interactionHandler)
	registerOfferRoutes(api, offerHandler)
	registerFamilyRoutes(api, familyHandler)
	if cfg.Features.Notifications.Enabled {
		registerNotificationRoutes(api, notificationHandler)
	}
	registerCronRoutes(r, cronHandler, cfg.Cron.Secret)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
