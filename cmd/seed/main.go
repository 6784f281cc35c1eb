package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/container"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// seed creates a demo user with one task. Running it twice logs in as the
// existing user instead of creating a second one.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	db, err := pginfra.Open(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to open db")
	}
	defer func() { _ = db.Close() }()
	if err := pginfra.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	svc := container.New(cfg, logger, db, nil, application.NopNotifier{}).Service()

	const (
		email    = "demo@example.com"
		password = "demopass123"
	)
	u, token, err := svc.Register(ctx, application.NewUser{Name: "Demo User", Email: email, Password: password, Age: 30})
	var verr *application.ValidationError
	if errors.As(err, &verr) && verr.Fields["email"] == "is already registered" {
		u, token, err = svc.Login(ctx, email, password)
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed user")
	}

	task, err := svc.AddTask(ctx, u, "Try the task manager API")
	if err != nil {
		logger.WithError(err).Fatal("failed to seed task")
	}

	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)
	fmt.Printf("seeded task: id=%s\n", task.ID)
	fmt.Printf("token: %s\n", token)
}
