package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/noah-isme/scholarship-approval-api/internal/cli"
	"github.com/noah-isme/scholarship-approval-api/internal/repository"
	"github.com/noah-isme/scholarship-approval-api/internal/service"
	"github.com/noah-isme/scholarship-approval-api/pkg/authz"
	"github.com/noah-isme/scholarship-approval-api/pkg/config"
	"github.com/noah-isme/scholarship-approval-api/pkg/database"
	"github.com/noah-isme/scholarship-approval-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRoot(build)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func build(ctx context.Context) (*cli.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr := logger.NewCLI(cfg)

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	permissions, err := authz.New(cfg.Authz.PolicyFile)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load authorization policy: %w", err)
	}

	calendarRepo := repository.NewCalendarRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	// Reminders are written inline; the command exits once the sweep returns.
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), nil, logr)

	reminders := service.NewReminderService(
		calendarRepo,
		repository.NewUserRepository(db),
		repository.NewTermRepository(db),
		permissions,
		notifications,
		auditRepo,
		logr,
	)
	calendars := service.NewCalendarConfigService(calendarRepo, nil, 0, nil, logr)

	return &cli.Services{
		Sweeper:   reminders,
		Deadlines: calendars,
		Close: func() {
			_ = db.Close()
			_ = logr.Sync()
		},
	}, nil
}
