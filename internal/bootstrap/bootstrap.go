package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/aits/internal/app/auth"
	appControllers "github.com/yigit/aits/internal/app/controllers"
	appMigrations "github.com/yigit/aits/internal/app/migrations"
	appRepos "github.com/yigit/aits/internal/app/repositories"
	appRoutes "github.com/yigit/aits/internal/app/routes"
	appServices "github.com/yigit/aits/internal/app/services"
	"github.com/yigit/aits/internal/config"
	"github.com/yigit/aits/internal/db"
	appMiddleware "github.com/yigit/aits/internal/middleware"
	pkgAuth "github.com/yigit/aits/internal/pkg/auth"
	"github.com/yigit/aits/internal/pkg/email"
	"github.com/yigit/aits/internal/pkg/logger"
	"github.com/yigit/aits/internal/pkg/websocket"
	"github.com/yigit/aits/internal/seed"
)

// DefaultConfigPath is where LoadConfigAndSetupLogger looks unless CONFIG_PATH is set
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                  *appRepos.Repositories
	Policy                 *appAuth.Policy
	JWTService             *pkgAuth.JWTService
	EmailService           email.EmailService
	Hub                    *websocket.Hub
	IssueService           appServices.IssueService
	NotificationService    appServices.NotificationService
	AuthService            *appServices.AuthService
	UserService            *appServices.UserService
	AuthController         *appControllers.AuthController
	IssueController        *appControllers.IssueController
	UserController         *appControllers.UserController
	NotificationController *appControllers.NotificationController
	WebSocketHandler       *websocket.Handler
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := DefaultConfigPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Postgres, applies migrations and seeds the default registrar.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	users := appRepos.NewUserRepository(database.Pool)
	if err := seed.CreateDefaultRegistrar(ctx, users, cfg.Seed.RegistrarEmail, cfg.Seed.RegistrarPassword, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default registrar, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	if database == nil || database.Pool == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	deps.Policy = appAuth.NewPolicy()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.SMTP.BaseURL,
	}, logger.Component("email"))

	deps.Hub = websocket.NewHub(logger.Component("websocket"))

	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Repos.UserRepository,
		deps.EmailService,
		deps.Hub,
		logger.Component("notifications"),
		time.Now,
	)

	deps.IssueService = appServices.NewIssueService(
		deps.Repos.IssueRepository,
		deps.Repos.UserRepository,
		deps.NotificationService,
		deps.Policy,
		logger.Component("issues"),
		appServices.IssueServiceOptions{DispatchTimeout: cfg.DispatchTimeout()},
	)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.JWTService,
		deps.NotificationService,
		logger.Component("auth"),
		cfg.DispatchTimeout(),
	)

	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.Policy, logger.Component("users"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.IssueController = appControllers.NewIssueController(deps.IssueService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService, lgr)
	deps.WebSocketHandler = websocket.NewHandler(deps.Hub, cfg.CORS.AllowedOrigins, logger.Component("websocket"))

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, health appRoutes.HealthCheck, lgr zerolog.Logger) (*gin.Engine, error) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.Server.Mode == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr))
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.IssueController,
		deps.UserController,
		deps.NotificationController,
		deps.WebSocketHandler,
		deps.AuthMiddleware,
		health,
	)

	return router, nil
}
