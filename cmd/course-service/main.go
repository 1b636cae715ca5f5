package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"

	registryapp "github.com/campus/backend/internal/application/registry"
	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/infrastructure/cache"
	"github.com/campus/backend/internal/infrastructure/config"
	"github.com/campus/backend/internal/infrastructure/event"
	"github.com/campus/backend/internal/infrastructure/logger"
	"github.com/campus/backend/internal/infrastructure/persistence"
	"github.com/campus/backend/internal/infrastructure/telemetry"
	"github.com/campus/backend/internal/interfaces/http/handler"
	"github.com/campus/backend/internal/interfaces/http/middleware"
	"github.com/campus/backend/internal/interfaces/http/router"
)

const (
	serviceName = "course-service"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: serviceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting course service",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.DB.Use(otelgorm.NewPlugin()); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	if err := db.AutoMigrate(&registry.Course{}, &registry.Enrollment{}); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}
	log.Info("Database connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = redisClient.Close()
	}()

	var store cache.Store = cache.NewRedisStore(redisClient)
	if !cfg.Cache.Enabled {
		store = cache.NewMemoryStore()
	}
	keyPrefix := cfg.Cache.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = serviceName
	}
	aside := cache.NewAside(store, keyPrefix, cfg.Cache.TTL, log)

	courseRepo := persistence.NewGormCourseRepository(db.DB)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db.DB)

	courseService := registryapp.NewCourseService(courseRepo, aside, log)

	serializer := event.NewEventSerializer()
	serializer.Register(registry.EventTypeEnrollmentCreated, &registry.EnrollmentCreatedEvent{})
	consumer := event.NewStreamConsumer(
		redisClient,
		serializer,
		cfg.Broker.Stream,
		cfg.Broker.ConsumerGroup,
		cfg.Broker.ConsumerName,
		cfg.Broker.BlockTimeout,
		cfg.Broker.ClaimMinIdle,
		log,
	)
	consumer.Subscribe(registryapp.NewEnrollmentCreatedHandler(enrollmentRepo, log))

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
			log.Error("Event consumer stopped", zap.Error(err))
		}
	}()

	courseHandler := handler.NewCourseHandler(courseService)
	systemHandler := handler.NewSystemHandler(serviceName, version,
		handler.WithDatabase(db),
		handler.WithCache(aside),
	)

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	routerOpts := []router.Option{router.WithCORS(cors)}
	if cfg.Telemetry.Enabled {
		routerOpts = append(routerOpts, router.WithTracing())
	}
	r := router.New(serviceName, log, routerOpts...)
	r.Register(router.CourseRoutes(courseHandler))
	router.SystemRoutes(r.Engine(), systemHandler)
	engine := r.Setup()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
