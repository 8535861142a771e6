package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	ingestionUC "poolhub/internal/application/ingestion/usecases"
	"poolhub/internal/infrastructure/config"
	"poolhub/internal/infrastructure/database"
	"poolhub/internal/infrastructure/email"
	"poolhub/internal/infrastructure/repository"
	"poolhub/internal/infrastructure/scheduler"
	httpRouter "poolhub/internal/interfaces/http"
	"poolhub/internal/shared/logger"
)

func main() {
	// Parse environment from command line or env variable
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting ingestion worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	db := database.Get()
	integrationRepo := repository.NewIntegrationRepository(db)
	deviceRepo := repository.NewIntegrationDeviceRepository(db)
	readingRepo := repository.NewSensorReadingRepository(db)
	failureRepo := repository.NewIngestionFailureRepository(db)

	registry, disabled := httpRouter.BuildAdapterRegistry(cfg)

	var notifier ingestionUC.DeadLetterNotifier
	if cfg.Email.IsConfigured() {
		notifier = email.NewSMTPAlertService(email.SMTPConfig{
			Host:         cfg.Email.SMTPHost,
			Port:         cfg.Email.SMTPPort,
			Username:     cfg.Email.SMTPUsername,
			Password:     cfg.Email.SMTPPassword,
			FromAddress:  cfg.Email.FromAddress,
			FromName:     cfg.Email.FromName,
			OperatorAddr: cfg.Email.OperatorAddr,
		})
		log.Infow("dead-letter alerts enabled", "operator", cfg.Email.OperatorAddr)
	}

	retryUC := ingestionUC.NewRetryFailuresUseCase(
		registry, deviceRepo, readingRepo, failureRepo, notifier, disabled,
		cfg.Ingestion.RetryMaxAttempts, cfg.Ingestion.RetryLimit, log,
	)
	pollUC := ingestionUC.NewPollReadingsUseCase(
		integrationRepo, deviceRepo, readingRepo, registry,
		time.Duration(cfg.Ingestion.DefaultPollMinutes)*time.Minute, log,
	)

	sched := scheduler.New(retryUC, pollUC, scheduler.Config{
		SweepInterval: time.Duration(cfg.Ingestion.SweepIntervalSec) * time.Second,
		PollInterval:  time.Duration(cfg.Ingestion.PollIntervalSec) * time.Second,
	}, log)

	if err := sched.Start(); err != nil {
		log.Errorw("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	sched.Stop()
	log.Infow("ingestion worker stopped")
}
