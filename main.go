package main

import (
	"context"
	"log"
	"time"

	"hive-food/config"
	httpapi "hive-food/internal/api/http"
	"hive-food/internal/auth"
	"hive-food/internal/service"
	"hive-food/internal/storage"
)

const (
	orderEventsTopic  = "order-events"
	activityGroupID   = "activity-agg"
	menuCacheTTL      = 10 * time.Minute
	loginCookieMaxAge = 14 * 24 * time.Hour
)

func listenAddr(port string) string {
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	cache := storage.NewRedisCache(rdb, menuCacheTTL)
	activity := storage.NewActivityStore(rdb)

	var publisher service.EventPublisher
	if config.KafkaBroker() != "" {
		writer := config.NewKafkaWriter(orderEventsTopic)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)

		reader := config.NewKafkaReader(orderEventsTopic, activityGroupID)
		defer reader.Close()
		consumer := service.NewConsumer(reader, activity)
		go consumer.Start(context.Background())
	} else {
		log.Println("Warning: KAFKA_BROKER not set, order events disabled")
	}

	users := service.NewUserService(repo, config.AllowedEmailDomains())
	catalog := service.NewCatalogService(repo, cache)
	sessions := service.NewSessionService(repo, repo, repo, repo, publisher,
		&service.DefaultQRGenerator{BaseURL: config.BaseURL()})
	items := service.NewItemService(repo, repo, repo, publisher)

	if pw := config.BootstrapAdminPassword(); pw != "" {
		if err := users.EnsureBootstrapAdmin(config.BootstrapAdminEmail(), pw, config.BootstrapAdminName()); err != nil {
			log.Printf("Warning: bootstrap admin setup failed: %v", err)
		}
	}

	tokens := auth.NewTokenManager(config.SessionSecret(), loginCookieMaxAge)
	handler := httpapi.NewHandler(users, catalog, sessions, items, activity, tokens)

	httpapi.StartServer(listenAddr(config.Port()), httpapi.NewRouter(handler))
}
