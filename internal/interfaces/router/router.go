package router

import (
	adminsvc "sharebloom-backend/internal/application/admin"
	authsvc "sharebloom-backend/internal/application/auth"
	donationsvc "sharebloom-backend/internal/application/donations"
	drivesvc "sharebloom-backend/internal/application/drives"
	healthsvc "sharebloom-backend/internal/application/health"
	requestsvc "sharebloom-backend/internal/application/requests"
	usersvc "sharebloom-backend/internal/application/users"
	"sharebloom-backend/internal/config"
	"sharebloom-backend/internal/infrastructure/database"
	adminhandler "sharebloom-backend/internal/interfaces/handlers/admin"
	authhandler "sharebloom-backend/internal/interfaces/handlers/auth"
	donationhandler "sharebloom-backend/internal/interfaces/handlers/donations"
	drivehandler "sharebloom-backend/internal/interfaces/handlers/drives"
	healthhandler "sharebloom-backend/internal/interfaces/handlers/health"
	requesthandler "sharebloom-backend/internal/interfaces/handlers/requests"
	userhandler "sharebloom-backend/internal/interfaces/handlers/users"
	"sharebloom-backend/internal/middleware"
	"sharebloom-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp opens the database and Redis from cfg and returns the wired app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}
	rdb, err := middleware.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return New(cfg, db, rdb), db, rdb, nil
}

// New wires middleware and routes over an existing database and Redis client.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.FrontendOrigins,
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.Session(rdb))
	app.Use(middleware.BearerIdentity(cfg.JWTSecret))
	app.Use(middleware.HealthMarker(rdb))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	requireAuth := middleware.RequireAuth()
	api := app.Group("/api")

	hh := &healthhandler.Handlers{
		Service:        &healthsvc.Service{Rdb: rdb, DB: &database.Pinger{DB: db}},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	api.Get("/health", hh.JSON)
	api.Get("/health/reset", hh.Reset)
	api.Get("/health/errors", hh.Errors)

	ah := &authhandler.Handlers{
		Service:    &authsvc.Service{DB: db},
		UserFinder: &authsvc.GormUserFinder{DB: db},
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	ag := api.Group("/auth")
	ag.Post("/register", ah.Register)
	ag.Post("/login", ah.Login)
	ag.Get("/me", ah.Me)
	ag.Delete("/logout", ah.Logout)

	users := &usersvc.Service{DB: db, Rdb: rdb}
	uh := &userhandler.Handlers{Service: users}
	ug := api.Group("/users", requireAuth)
	ug.Get("/", middleware.AuthorizePermission(constants.ListUsers), uh.List)
	ug.Get("/role/:role", uh.ByRole)
	ug.Get("/:id", uh.Get)
	ug.Put("/:id", uh.Update)
	ug.Delete("/:id", middleware.AuthorizePermission(constants.DeleteUser), uh.Delete)

	dh := &donationhandler.Handlers{Service: &donationsvc.Service{DB: db}}
	dg := api.Group("/donations")
	dg.Get("/", dh.List)
	dg.Get("/user/my-donations", requireAuth, dh.Mine)
	dg.Get("/:id", dh.Get)
	dg.Post("/", requireAuth, middleware.AuthorizePermission(constants.CreateDonation), dh.Create)
	dg.Put("/:id", requireAuth, dh.Update)
	dg.Post("/:id/status", requireAuth, dh.Transition)
	dg.Delete("/:id", requireAuth, dh.Delete)

	rh := &requesthandler.Handlers{Service: &requestsvc.Service{DB: db}}
	rg := api.Group("/requests")
	rg.Get("/", rh.List)
	rg.Get("/user/my-requests", requireAuth, rh.Mine)
	rg.Get("/:id", rh.Get)
	rg.Post("/", requireAuth, middleware.AuthorizePermission(constants.CreateRequest), rh.Create)
	rg.Put("/:id", requireAuth, rh.Update)
	rg.Post("/:id/match", requireAuth, middleware.AuthorizePermission(constants.MatchRequest), rh.Match)
	rg.Delete("/:id", requireAuth, rh.Delete)

	drh := &drivehandler.Handlers{Service: &drivesvc.Service{DB: db}}
	drg := api.Group("/drives")
	drg.Get("/", drh.List)
	drg.Get("/:id", drh.Get)
	drg.Post("/", requireAuth, middleware.AuthorizePermission(constants.CreateDrive), drh.Create)
	drg.Put("/:id", requireAuth, middleware.AuthorizePermission(constants.ManageDrives), drh.Update)
	drg.Delete("/:id", requireAuth, middleware.AuthorizePermission(constants.ManageDrives), drh.Delete)
	drg.Post("/:id/volunteer", requireAuth, drh.Volunteer)
	drg.Post("/:id/donations", requireAuth, drh.AttachDonation)
	drg.Post("/:id/logistics", requireAuth, middleware.AuthorizePermission(constants.AssignLogistics), drh.AssignLogistics)

	adh := &adminhandler.Handlers{Service: &adminsvc.Service{DB: db}, Users: users}
	adg := api.Group("/admin", requireAuth, middleware.AuthorizePermission(constants.ViewReports))
	adg.Get("/users", adh.ListUsers)
	adg.Put("/users/:id/role", middleware.AuthorizePermission(constants.ChangeRole), adh.ChangeRole)
	adg.Delete("/users/:id", middleware.AuthorizePermission(constants.DeleteUser), adh.DeleteUser)
	adg.Get("/stats", adh.Stats)
	adg.Get("/reports", adh.Reports)

	return app
}
