package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"moodring/internal/config"
	"moodring/internal/crypto"
	"moodring/internal/db"
	"moodring/internal/handlers"
	mw "moodring/internal/middleware"
	"moodring/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Dev() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	dbConn, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open db", zap.Error(err))
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err := dbConn.Ping(); err != nil {
		logger.Fatal("failed to ping db", zap.Error(err))
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Fatal("failed migrations", zap.Error(err))
	}

	st := store.NewPostgres(dbConn)
	hasher := crypto.NewHasher(cfg.BcryptCost)

	userHandler := handlers.NewUserHandler(st, hasher)
	moodHandler := handlers.NewMoodHandler(st)
	historyHandler := handlers.NewHistoryHandler(st, hasher)
	metricsHandler := handlers.NewMetricsHandler(st)
	healthHandler := handlers.NewHealthHandler(st)
	authMW := mw.NewAuthMiddleware(st)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.NotFound(handlers.NotFound)

	r.Get("/healthz", healthHandler.Get)
	r.Get("/metrics", metricsHandler.Get)

	// Subject-or-self reads resolve their own identity: a public username
	// needs no token, the bare form falls back to the bearer token.
	r.Get("/mood", moodHandler.Get)
	r.Get("/mood/{user}", moodHandler.Get)
	r.Get("/history/all", historyHandler.All)
	r.Get("/history/all/{user}", historyHandler.All)
	r.Get("/history", historyHandler.Page)
	r.Get("/history/{user}", historyHandler.Page)

	r.Group(func(pr chi.Router) {
		pr.Use(authMW.RequireAuth)
		pr.Get("/me", userHandler.GetMe)
		pr.Patch("/me", userHandler.UpdateMe)
		pr.Delete("/me", userHandler.DeleteMe)
		pr.Put("/mood", moodHandler.Put)
		pr.Delete("/mood", moodHandler.Delete)
		pr.Delete("/history/all", historyHandler.DeleteAll)
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	_ = dbConn.Close()
	logger.Info("server stopped")
}
