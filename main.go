package main

import (
	"context"
	"log"

	"crosspost/api/router"
	"crosspost/config"
	"crosspost/db"
	"crosspost/eventbus"
	"crosspost/logger"
	"crosspost/publisher"
	"crosspost/repositories"
	"crosspost/services"
)

func main() {
	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")
	cfg := config.GetConfig()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		log.Fatal("failed to initialize MongoDB:", err)
	}

	// Kafka is optional; without brokers the bus stays nil and every
	// publish is a no-op.
	var bus *eventbus.Bus
	if cfg.KafkaBrokers != "" {
		b, err := eventbus.New(cfg.KafkaBrokers)
		if err != nil {
			log.Fatal("failed to initialize event bus:", err)
		}
		bus = b
		defer bus.Close()
	}

	database := db.Database()
	contents := repositories.NewContentRepository(database)
	schedules := repositories.NewScheduleRepository(database)
	analytics := repositories.NewAnalyticsRepository(database)
	users := repositories.NewUserRepository(database)
	dispatcher := publisher.NewDispatcher()

	r := router.New(router.Services{
		Generation: services.NewGenerationService(contents, users, cfg.Providers, bus),
		Content:    services.NewContentService(contents, schedules, analytics, bus),
		Schedule:   services.NewScheduleService(contents, schedules, bus),
		Publish:    services.NewPublishService(contents, schedules, analytics, users, dispatcher, bus),
		Analytics:  services.NewAnalyticsService(analytics, contents, users, dispatcher, bus),
	})

	logger.InfoWithFields("server starting", logger.Fields{"addr": cfg.Server.Addr})
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal("server stopped:", err)
	}
}
