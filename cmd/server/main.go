package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/cache"
	"crm-backend/internal/config"
	"crm-backend/internal/database"
	"crm-backend/internal/db"
	"crm-backend/internal/handlers"
	"crm-backend/internal/health"
	h "crm-backend/internal/http"
	"crm-backend/internal/middleware"
	"crm-backend/internal/monitoring"
	"crm-backend/internal/notify"
	"crm-backend/internal/repositories"
	"crm-backend/internal/services"
	"crm-backend/internal/timeutil"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Timezone != "" {
		if err := timeutil.SetLocation(cfg.Server.Timezone); err != nil {
			log.Fatalf("invalid server timezone %q: %v", cfg.Server.Timezone, err)
		}
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Redis is optional; without it every read recomputes from Postgres
	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	depositRepo := repositories.NewDepositRepository(pool)
	dismissalRepo := repositories.NewDismissalRepository(pool)
	briefingRepo := repositories.NewBriefingRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	depositService := services.NewDepositService(depositRepo, customerRepo)
	retentionService := services.NewRetentionService(depositRepo, cfg)
	alertService := services.NewAlertService(depositRepo, dismissalRepo, briefingRepo, cfg)

	provider := notify.New(cfg)
	scheduler := services.NewScheduler(alertService, provider, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	scheduler.Start(ctx)

	if cfg.Monitoring.Enabled {
		opsServer := monitoring.NewServer(pool, cfg.Monitoring.Port)
		scheduler.OnDigest(opsServer.PublishSummary)
		go opsServer.Start()
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	productHandler := handlers.NewProductHandler(productRepo)
	depositHandler := handlers.NewDepositHandler(depositService)
	retentionHandler := handlers.NewRetentionHandler(retentionService)
	alertHandler := handlers.NewAlertHandler(alertService, scheduler)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := h.NewRouter(
		authHandler,
		userHandler,
		customerHandler,
		productHandler,
		depositHandler,
		retentionHandler,
		alertHandler,
		healthHandler,
		authMiddleware,
	)

	corsHandler := middleware.NewCORS(cfg)(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[Server] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Shutdown error: %v", err)
	}
}
