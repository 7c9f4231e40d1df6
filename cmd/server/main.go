package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/KooroshTorabi/meal-planner-sub002/docs" // swagger docs

	"github.com/KooroshTorabi/meal-planner-sub002/internal/audit"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/auth"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/cache"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/config"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/db"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/events"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/handler"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/router"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/service"
)

// @title Meal Planner API
// @version 1.0
// @description Elderly-care meal planning API: residents, meal orders, kitchen ingredient aggregation, alerts and audit trail.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Resident{},
		&model.MealOrder{},
		&model.OrderItem{},
		&model.Alert{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("redis unavailable, running without cache: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	residentRepo := repository.NewResidentRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	alertRepo := repository.NewAlertRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Best-effort audit pipeline; kafka mirror only when a broker is set.
	publisher := events.NewPublisher(cfg.KafkaBroker, cfg.KafkaAuditTopic)
	auditor := audit.NewRecorder(auditRepo, publisher)
	defer auditor.Close()
	defer publisher.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo)
	residentService := service.NewResidentService(residentRepo)
	orderService := service.NewOrderService(orderRepo, residentRepo)
	aggregationService := service.NewAggregationService(orderRepo, cacheClient)
	alertService := service.NewAlertService(alertRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, auditor)
	userHandler := handler.NewUserHandler(userService, auditor)
	residentHandler := handler.NewResidentHandler(residentService, auditor)
	orderHandler := handler.NewOrderHandler(orderService, auditor)
	aggregationHandler := handler.NewAggregationHandler(aggregationService)
	alertHandler := handler.NewAlertHandler(alertService, cfg, auditor)
	auditHandler := handler.NewAuditHandler(auditRepo)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		auditor,
		authHandler,
		userHandler,
		residentHandler,
		orderHandler,
		aggregationHandler,
		alertHandler,
		auditHandler,
	)

	// Periodic alert escalation sweep
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("scheduler init: %v", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.EscalationInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			count, err := alertService.EscalateOverdue(ctx, cfg.AlertEscalationAge)
			if err != nil {
				log.Printf("escalation sweep failed: %v", err)
				return
			}
			if count > 0 {
				log.Printf("escalation sweep: %d alerts escalated", count)
			}
		}),
	)
	if err != nil {
		log.Fatalf("schedule escalation sweep: %v", err)
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
