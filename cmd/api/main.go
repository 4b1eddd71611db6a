package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/vendorhub-backend/api"
	"github.com/angelmondragon/vendorhub-backend/api/routes"
	"github.com/angelmondragon/vendorhub-backend/internal/auth"
	"github.com/angelmondragon/vendorhub-backend/internal/notifications"
	"github.com/angelmondragon/vendorhub-backend/internal/uploads"
	"github.com/angelmondragon/vendorhub-backend/internal/users"
	"github.com/angelmondragon/vendorhub-backend/internal/vendors"
	"github.com/angelmondragon/vendorhub-backend/internal/verification"
	"github.com/angelmondragon/vendorhub-backend/pkg/auth/session"
	"github.com/angelmondragon/vendorhub-backend/pkg/config"
	"github.com/angelmondragon/vendorhub-backend/pkg/db"
	"github.com/angelmondragon/vendorhub-backend/pkg/env"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
	"github.com/angelmondragon/vendorhub-backend/pkg/metrics"
	"github.com/angelmondragon/vendorhub-backend/pkg/migrate"
	"github.com/angelmondragon/vendorhub-backend/pkg/redis"
	"github.com/angelmondragon/vendorhub-backend/pkg/storage/gcs"
	"github.com/angelmondragon/vendorhub-backend/pkg/storage/local"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	infra := routes.Infra{
		DB:             dbClient,
		Redis:          redisClient,
		Sessions:       sessionManager,
		HTTPMetrics:    metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		MetricsHandler: promhttp.Handler(),
	}

	var objectStore uploads.ObjectStore
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		defer gcsClient.Close()
		objectStore = gcsClient
		infra.Storage = gcsClient
	} else {
		localStore, err := local.New(cfg.Uploads.LocalDir)
		if err != nil {
			logg.Error(ctx, "failed to prepare local upload dir", err)
			os.Exit(1)
		}
		logg.Warn(logg.WithField(ctx, "dir", cfg.Uploads.LocalDir), "no gcs bucket configured, storing uploads on local disk")
		objectStore = localStore
	}

	uploadService, err := uploads.NewService(objectStore, cfg.Uploads.MaxFileBytes(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create upload service", err)
		os.Exit(1)
	}

	verificationMetrics := metrics.NewVerificationMetrics(prometheus.DefaultRegisterer)

	userRepo := users.NewRepository(dbClient.DB())
	vendorRepo := vendors.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create register service", err)
		os.Exit(1)
	}

	adminRegisterService, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create admin register service", err)
		os.Exit(1)
	}

	accountTypeService, err := auth.NewAccountTypeService(auth.AccountTypeServiceParams{
		DB:     dbClient,
		Tokens: authService,
	})
	if err != nil {
		logg.Error(ctx, "failed to create account type service", err)
		os.Exit(1)
	}

	vendorService, err := vendors.NewService(vendorRepo, uploadService, verificationMetrics, logg, vendors.Config{
		MaxOtherDocuments: cfg.Uploads.MaxOtherDocuments,
	})
	if err != nil {
		logg.Error(ctx, "failed to create vendor service", err)
		os.Exit(1)
	}

	verificationService, err := verification.NewService(verification.ServiceParams{
		TxRunner:      dbClient,
		Vendors:       vendorRepo,
		Users:         userRepo,
		Notifications: notificationRepo,
		Files:         uploadService,
		Metrics:       verificationMetrics,
		Logger:        logg,
		Config: verification.Config{
			ReasonMin: cfg.Verification.RejectionReasonMin,
			ReasonMax: cfg.Verification.RejectionReasonMax,
		},
	})
	if err != nil {
		logg.Error(ctx, "failed to create verification service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(ctx, "failed to create notifications service", err)
		os.Exit(1)
	}

	addr := ":" + env.First(cfg.App.Port, "PORT")
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	router := routes.NewRouter(cfg, logg, infra, routes.Services{
		Auth:          authService,
		Register:      registerService,
		AdminRegister: adminRegisterService,
		AccountType:   accountTypeService,
		Vendors:       vendorService,
		Verification:  verificationService,
		Notifications: notificationService,
	})

	if err := api.Serve(ctx, api.NewServer(addr, router), logg); err != nil {
		logg.Error(logCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(logCtx, "api server stopped")
}
