package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/criticdb/backend/docs"
	"github.com/criticdb/backend/internal/auth"
	"github.com/criticdb/backend/internal/config"
	"github.com/criticdb/backend/internal/handlers"
	"github.com/criticdb/backend/internal/logger"
	"github.com/criticdb/backend/internal/mailer"
	"github.com/criticdb/backend/internal/middleware"
	"github.com/criticdb/backend/internal/repositories"
	"github.com/criticdb/backend/internal/services"
)

// @title CriticDB API
// @version 1.0
// @description API for a catalog of titles with user reviews and comments

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting CriticDB API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Token and confirmation code generators share the server secret
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	codeGenerator := auth.NewCodeGenerator(cfg.JWT.Secret)

	// Confirmation code delivery
	smtpMailer := mailer.New(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		logger.Logger,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	categoryRepo := repositories.NewCategoryRepository(db, logger.Logger)
	genreRepo := repositories.NewGenreRepository(db, logger.Logger)
	titleRepo := repositories.NewTitleRepository(db, logger.Logger)
	reviewRepo := repositories.NewReviewRepository(db, logger.Logger)
	commentRepo := repositories.NewCommentRepository(db, logger.Logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, codeGenerator, tokenGenerator, smtpMailer, logger.Logger)
	usersService := services.NewUsersService(userRepo, logger.Logger)
	categoryService := services.NewCategoryService(categoryRepo, logger.Logger)
	genreService := services.NewGenreService(genreRepo, logger.Logger)
	titleService := services.NewTitleService(titleRepo, categoryRepo, genreRepo, logger.Logger)
	reviewService := services.NewReviewService(reviewRepo, titleRepo, logger.Logger)
	commentService := services.NewCommentService(commentRepo, reviewRepo, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	usersHandler := handlers.NewUsersHandler(usersService, logger.Logger)
	categoriesHandler := handlers.NewCategoriesHandler(categoryService, logger.Logger)
	genresHandler := handlers.NewGenresHandler(genreService, logger.Logger)
	titlesHandler := handlers.NewTitlesHandler(titleService, logger.Logger)
	reviewsHandler := handlers.NewReviewsHandler(reviewService, logger.Logger)
	commentsHandler := handlers.NewCommentsHandler(commentService, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware)
	r.Use(middleware.Authenticate(tokenGenerator))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		usersHandler.RegisterRoutes(r)
		categoriesHandler.RegisterRoutes(r)
		genresHandler.RegisterRoutes(r)
		titlesHandler.RegisterRoutes(r)
		reviewsHandler.RegisterRoutes(r)
		commentsHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Try migrations folder relative to the binary when running from cmd
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
