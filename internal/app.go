// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "github.com/Anastazzi-Grand/bank-rest-main/internal/api"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/api/handler"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/cardcrypto"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/config"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/repository"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/repository/postgres"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/service"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"
	"github.com/Anastazzi-Grand/bank-rest-main/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Codec  *cardcrypto.Codec

	// Repositories
	UserRepository repository.UserRepository
	CardRepository repository.CardRepository

	// Services
	CardService service.CardService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Initialize the card number codec from the configured key set
	codec, err := cardcrypto.NewCodec(cfg.CardKeys)
	if err != nil {
		return fmt.Errorf("failed to initialize card number codec: %w", err)
	}
	app.Codec = codec
	app.Logger.Info("Card number codec initialized.", "keys", len(cfg.CardKeys))

	// 4. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 5. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.CardRepository = postgres.NewCardRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	app.CardService = service.NewCardService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.CardRepository,
		app.Codec,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	cardHandler := handler.NewCardHandler(app.CardService, app.Logger)
	app.HTTPHandler = router.NewRouter(cardHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
