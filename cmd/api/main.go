package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vinzencor/student-management-backend/api/routes"
	"github.com/vinzencor/student-management-backend/internal/courses"
	"github.com/vinzencor/student-management-backend/internal/fees"
	"github.com/vinzencor/student-management-backend/internal/receipts"
	"github.com/vinzencor/student-management-backend/internal/reminders"
	"github.com/vinzencor/student-management-backend/internal/students"
	"github.com/vinzencor/student-management-backend/pkg/config"
	"github.com/vinzencor/student-management-backend/pkg/db"
	"github.com/vinzencor/student-management-backend/pkg/logger"
	"github.com/vinzencor/student-management-backend/pkg/mailer"
	"github.com/vinzencor/student-management-backend/pkg/migrate"
	"github.com/vinzencor/student-management-backend/pkg/redis"
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
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	studentsRepo := students.NewRepository(dbClient.DB())
	coursesRepo := courses.NewRepository(dbClient.DB())
	feesRepo := fees.NewRepository(dbClient.DB())
	receiptsRepo := receipts.NewRepository(dbClient.DB())

	studentsService, err := students.NewService(studentsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create student service", err)
		os.Exit(1)
	}

	feesService, err := fees.NewService(dbClient, feesRepo, studentsRepo, coursesRepo, receiptsRepo, nil, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create fee service", err)
		os.Exit(1)
	}

	receiptsService, err := receipts.NewService(receiptsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt service", err)
		os.Exit(1)
	}

	sender, err := mailer.NewSendGrid(cfg.Sendgrid, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail sender", err)
		os.Exit(1)
	}

	remindersService, err := reminders.NewService(feesRepo, studentsRepo, sender, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Metrics:   promRegistry,
			Fees:      feesService,
			Receipts:  receiptsService,
			Reminders: remindersService,
			Students:  studentsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
