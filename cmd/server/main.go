// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/gurkanbulca/projecttracker/internal/config"
	"github.com/gurkanbulca/projecttracker/internal/database"
	"github.com/gurkanbulca/projecttracker/internal/handlers"
	"github.com/gurkanbulca/projecttracker/internal/middleware"
	"github.com/gurkanbulca/projecttracker/internal/repository"
	"github.com/gurkanbulca/projecttracker/internal/service"
	"github.com/gurkanbulca/projecttracker/pkg/auth"
	"github.com/gurkanbulca/projecttracker/pkg/logger"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.ToLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}

	if err := run(cfg); err != nil {
		logger.Get().Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Get()

	db, err := database.Open(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database connection", "error", err)
		}
	}()

	// Run auto migration
	if cfg.Server.AutoMigrate {
		log.Info("running auto migration")
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	// Repositories and services
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenDuration)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, cfg.Database.DBName),
	)

	router := handlers.NewRouter(handlers.RouterConfig{
		Projects:       service.NewProjectService(projectRepo, taskRepo, commentRepo, userRepo),
		Tasks:          service.NewTaskService(taskRepo, projectRepo, userRepo),
		Comments:       service.NewCommentService(commentRepo, taskRepo),
		Auth:           middleware.NewAuthenticator(tokenManager, cfg.Server.LoginURL),
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         log,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	// gRPC carries the health service only
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	// Register reflection for development
	if cfg.Server.EnableReflection {
		reflection.Register(grpcServer)
		log.Info("gRPC reflection enabled (disable in production)")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen on grpc port: %w", err)
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info("gRPC health server listening", "port", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	go func() {
		log.Info("HTTP server listening", "port", cfg.Server.HTTPPort, "environment", cfg.Server.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case serveErr = <-errCh:
		log.Error("server failed, shutting down", "error", serveErr)
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown incomplete", "error", err)
	}
	grpcServer.GracefulStop()

	log.Info("server shutdown complete")
	return serveErr
}
