package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/vendorhub-backend/internal/auth"
	"github.com/angelmondragon/vendorhub-backend/pkg/config"
	"github.com/angelmondragon/vendorhub-backend/pkg/db"
	"github.com/angelmondragon/vendorhub-backend/pkg/env"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "create-admin"})

	_ = godotenv.Load()

	email := flag.String("email", env.Get("ADMIN_EMAIL", ""), "admin email (env ADMIN_EMAIL)")
	password := flag.String("password", env.Get("ADMIN_PASSWORD", ""), "admin password, min 8 characters (env ADMIN_PASSWORD)")
	firstName := flag.String("first-name", env.Get("ADMIN_FIRST_NAME", "Admin"), "admin first name")
	lastName := flag.String("last-name", env.Get("ADMIN_LAST_NAME", "User"), "admin last name")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "create-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"email": *email,
	})

	dbClient, err := db.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	svc, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	requireResource(ctx, logg, "admin register service", err)

	user, err := svc.Register(ctx, auth.AdminRegisterRequest{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
	})
	if err != nil {
		logg.Error(ctx, "create admin failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithUserID(ctx, user.ID.String()), "admin user created")
	fmt.Printf("created admin %s (%s)\n", user.Email, user.ID)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
