package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/opendirectory/resource-directory/docs"
	"github.com/opendirectory/resource-directory/internal/api/handler"
	"github.com/opendirectory/resource-directory/internal/api/middleware"
	"github.com/opendirectory/resource-directory/internal/auth"
	"github.com/opendirectory/resource-directory/internal/core/domain"
	"github.com/opendirectory/resource-directory/internal/core/ports"
	"github.com/opendirectory/resource-directory/internal/core/service"
	"github.com/opendirectory/resource-directory/internal/infrastructure/config"
	mongodb "github.com/opendirectory/resource-directory/internal/infrastructure/db/mongo"
	redisdb "github.com/opendirectory/resource-directory/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
//
// The middleware chain on every gated route is: entity loader (when the
// route carries a path id), then authentication, then role policy. The
// loader is identity-agnostic, so loading before authentication is safe;
// role checks always run after authentication.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("directory"))

	// --- Dependencies ---
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	cache := redisdb.NewListingCache(rdb, log)

	userRepo := mongodb.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, tokens, audit)
	userService := service.NewUserService(userRepo, audit)

	authn := middleware.NewAuthenticator(tokens, userRepo, log)
	requireOwner := middleware.RequireRole(domain.RoleOwner)
	loadUser := middleware.LoadEntity[domain.User](middleware.KindUser, userRepo)

	authHandler := handler.NewAuthHandler(authService, tokens.TTL())
	userHandler := handler.NewUserHandler(userService)

	// --- User routes ---
	users := e.Group("/api/users")
	users.POST("/login", authHandler.Login, authn.Optional())
	users.POST("/isLoggedIn", authHandler.IsLoggedIn, authn.Optional())
	users.POST("/register", authHandler.Register, authn.Optional())
	users.GET("/list", userHandler.List, authn.Require(), requireOwner)
	users.GET("/:id", userHandler.Read, loadUser, authn.Require())
	users.POST("/update", userHandler.Update, authn.Require())
	users.POST("/update/:id", userHandler.Update, loadUser, authn.Require())
	users.DELETE("/delete/:id", userHandler.Delete, loadUser, authn.Require(), requireOwner)

	// --- Directory routes ---
	resourceRepo := mongodb.NewEntityRepository[domain.Resource](db, "resources", domain.ErrResourceNotFound)
	locationRepo := mongodb.NewEntityRepository[domain.Location](db, "locations", domain.ErrLocationNotFound)
	categoryRepo := mongodb.NewEntityRepository[domain.Category](db, "categories", domain.ErrCategoryNotFound)
	providerRepo := mongodb.NewEntityRepository[domain.Provider](db, "providers", domain.ErrProviderNotFound)

	registerEntityRoutes[domain.Resource](e, middleware.KindResource, "resources", domain.ErrResourceNotFound,
		service.NewDirectory[domain.Resource](middleware.KindResource, resourceRepo, cache, audit, log),
		resourceRepo, authn)
	registerEntityRoutes[domain.Location](e, middleware.KindLocation, "locations", domain.ErrLocationNotFound,
		service.NewDirectory[domain.Location](middleware.KindLocation, locationRepo, cache, audit, log),
		locationRepo, authn)
	registerEntityRoutes[domain.Category](e, middleware.KindCategory, "categories", domain.ErrCategoryNotFound,
		service.NewDirectory[domain.Category](middleware.KindCategory, categoryRepo, cache, audit, log),
		categoryRepo, authn)
	registerEntityRoutes[domain.Provider](e, middleware.KindProvider, "providers", domain.ErrProviderNotFound,
		service.NewDirectory[domain.Provider](middleware.KindProvider, providerRepo, cache, audit, log),
		providerRepo, authn)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

// registerEntityRoutes wires the shared CRUD route set for one directory
// kind. Reads are public; mutations require an authenticated owner.
func registerEntityRoutes[T domain.Entity](e *echo.Echo, kind, path string, notFound error, svc ports.DirectoryService[T], finder middleware.Finder[T], authn *middleware.Authenticator) {
	h := handler.NewEntityHandler(kind, notFound, svc)
	load := middleware.LoadEntity[T](kind, finder)
	requireOwner := middleware.RequireRole(domain.RoleOwner)

	g := e.Group("/api/" + path)
	g.GET("", h.List)
	g.GET("/:id", h.Read, load)
	g.POST("", h.Create, authn.Require(), requireOwner)
	g.POST("/:id", h.Update, load, authn.Require(), requireOwner)
	g.DELETE("/:id", h.Delete, load, authn.Require(), requireOwner)
}
