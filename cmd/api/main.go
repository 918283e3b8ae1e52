package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/divvyup/divvy/docs"
	"github.com/divvyup/divvy/internal/config"
	"github.com/divvyup/divvy/internal/database"
	"github.com/divvyup/divvy/internal/expense"
	"github.com/divvyup/divvy/internal/expense/split"
	"github.com/divvyup/divvy/internal/group"
	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/notification"
	"github.com/divvyup/divvy/internal/settlement"
	"github.com/divvyup/divvy/internal/user"
	"github.com/divvyup/divvy/pkg/logging"
	"github.com/divvyup/divvy/pkg/metrics"
	mw "github.com/divvyup/divvy/pkg/middleware"
)

// @title Divvy API
// @version 1.0
// @description Expense splitting and settlement ledger API
// @BasePath /api/v1
func main() {
	logging.Setup()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	slog.Info("connected to database")

	// Split Strategy Factory (Factory Pattern)
	splitFactory := split.NewFactory()

	// Balance ledger shared by expenses and settlements
	bal := ledger.New()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo)
	groupHandler := group.NewHandler(groupService)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// Expense feature (with split factory and ledger injected)
	expenseRepo := expense.NewRepository(db, bal)
	expenseService := expense.NewService(expenseRepo, splitFactory, groupRepo, notificationService)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db, bal)
	settlementService := settlement.NewService(settlementRepo, groupService, notificationService)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(mw.TestUserMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", metrics.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port, "env", cfg.Env)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
