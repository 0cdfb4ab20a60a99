package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	activityapp "github.com/learn2pay/backend/internal/application/activity"
	crmapp "github.com/learn2pay/backend/internal/application/crm"
	feesapp "github.com/learn2pay/backend/internal/application/fees"
	identityapp "github.com/learn2pay/backend/internal/application/identity"
	onboardingapp "github.com/learn2pay/backend/internal/application/onboarding"
	"github.com/learn2pay/backend/internal/infrastructure/config"
	"github.com/learn2pay/backend/internal/infrastructure/event"
	"github.com/learn2pay/backend/internal/infrastructure/logger"
	"github.com/learn2pay/backend/internal/infrastructure/persistence"
	"github.com/learn2pay/backend/internal/interfaces/http/handler"
	"github.com/learn2pay/backend/internal/interfaces/http/middleware"
	"github.com/learn2pay/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Learn2Pay backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	feeStructureRepo := persistence.NewGormFeeStructureRepository(db.DB)
	ledgerRepo := persistence.NewGormStudentLedgerRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	caseRepo := persistence.NewGormCaseRepository(db.DB)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Event bus with the activity recorder subscribed. Recorder failures are
	// logged by the bus and never reach the publishing request.
	eventBus := event.NewInMemoryEventBus(log)
	recorder := activityapp.NewRecorder(activityRepo, log)
	eventBus.Subscribe(recorder, recorder.EventTypes()...)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	tokens := identityapp.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TokenExpiration)
	feeStructureService := feesapp.NewFeeStructureService(feeStructureRepo, eventBus)
	ledgerService := feesapp.NewStudentLedgerService(ledgerRepo, feeStructureRepo, eventBus)
	leadService := crmapp.NewLeadService(leadRepo, eventBus)
	caseService := onboardingapp.NewCaseService(caseRepo, eventBus)
	activityQueryService := activityapp.NewQueryService(activityRepo)
	userService := identityapp.NewUserService(userRepo, tokens, eventBus)

	// Handlers
	feeStructureHandler := handler.NewFeeStructureHandler(feeStructureService)
	studentFeeHandler := handler.NewStudentFeeHandler(ledgerService)
	leadHandler := handler.NewLeadHandler(leadService)
	onboardingHandler := handler.NewOnboardingHandler(caseService, activityQueryService)
	userHandler := handler.NewInstituteUserHandler(userService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Tokens: tokens,
		SkipPaths: []string{
			"/api/v1/institute-users/login",
		},
		Logger: log,
	}))

	feeStructureRoutes := router.NewDomainGroup("fee-structures", "/fee-structures")
	feeStructureRoutes.
		GET("", feeStructureHandler.List).
		POST("", feeStructureHandler.Create).
		GET("/institute/:instituteId", feeStructureHandler.ListByInstitute).
		GET("/:id", feeStructureHandler.GetByID).
		PUT("/:id", feeStructureHandler.Update).
		DELETE("/:id", feeStructureHandler.Delete)
	r.Register(feeStructureRoutes)

	studentFeeRoutes := router.NewDomainGroup("student-fees", "/student-fees")
	studentFeeRoutes.
		GET("", studentFeeHandler.List).
		POST("", studentFeeHandler.Create).
		POST("/payment/by-roll-number", studentFeeHandler.RecordPaymentByRollNumber).
		GET("/roll/:rollNumber", studentFeeHandler.GetByRollNumber).
		GET("/student/:studentId/history", studentFeeHandler.PaymentHistory).
		GET("/:id", studentFeeHandler.GetByID).
		PUT("/:id", studentFeeHandler.Update).
		DELETE("/:id", studentFeeHandler.Delete).
		POST("/:id/payment", studentFeeHandler.RecordPayment)
	r.Register(studentFeeRoutes)

	leadRoutes := router.NewDomainGroup("leads", "/leads")
	leadRoutes.
		GET("", leadHandler.List).
		POST("", leadHandler.Create).
		GET("/:id", leadHandler.GetByID).
		PUT("/:id", leadHandler.Update).
		PATCH("/:id/stage", leadHandler.UpdateStage).
		DELETE("/:id", leadHandler.Delete)
	r.Register(leadRoutes)

	onboardingRoutes := router.NewDomainGroup("onboarding", "/onboarding")
	onboardingRoutes.
		GET("", onboardingHandler.List).
		POST("", onboardingHandler.Create).
		GET("/stats", onboardingHandler.Stats).
		GET("/:id", onboardingHandler.GetByID).
		PUT("/:id", onboardingHandler.Update).
		PUT("/:id/documents/:key", onboardingHandler.UpdateDocument).
		PUT("/:id/technical/:key", onboardingHandler.UpdateTechnical).
		POST("/:id/training/:key/schedule", onboardingHandler.ScheduleTraining).
		POST("/:id/training/:key/complete", onboardingHandler.CompleteTraining).
		PUT("/:id/testing/:key", onboardingHandler.UpdateTesting).
		PUT("/:id/golive", onboardingHandler.UpdateGoLive).
		POST("/:id/milestones", onboardingHandler.AddMilestone).
		PUT("/:id/hold", onboardingHandler.Hold).
		DELETE("/:id/hold", onboardingHandler.ReleaseHold).
		GET("/:id/activities", onboardingHandler.ListActivities)
	r.Register(onboardingRoutes)

	userRoutes := router.NewDomainGroup("institute-users", "/institute-users")
	userRoutes.
		GET("", userHandler.List).
		POST("", userHandler.Create).
		POST("/login", userHandler.Login).
		GET("/:userId", userHandler.GetByID).
		PUT("/:userId", userHandler.Update).
		PUT("/:userId/status", userHandler.SetStatus).
		DELETE("/:userId", userHandler.Delete)
	r.Register(userRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
