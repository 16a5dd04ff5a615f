package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"

	"github.com/polymatrix/tracker/configs"
	"github.com/polymatrix/tracker/internal/ingester"
	"github.com/polymatrix/tracker/internal/logger"
	"github.com/polymatrix/tracker/internal/repository"
	"github.com/polymatrix/tracker/internal/service"
)

// Standalone transaction ingester for deployments where ingestion is scaled
// separately from the API (run cmd/api with -ingest=false alongside it).
func main() {
	cfg := configs.AppLoad()
	log := logger.New(cfg.LogJSON)

	db, err := gorm.Open(clickhouse.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.KafkaTransactions.Broker,
		"group.id":           cfg.KafkaTransactions.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		log.Fatalf("Failed to create Kafka consumer: %v", err)
	}
	if err := consumer.SubscribeTopics([]string{cfg.KafkaTransactions.Topic}, nil); err != nil {
		log.Fatalf("Failed to subscribe to topic: %v", err)
	}
	defer consumer.Close()

	publisher, err := ingester.NewKafkaAlertPublisher(cfg.KafkaAlerts, log)
	if err != nil {
		log.Fatalf("Failed to create alert publisher: %v", err)
	}
	defer publisher.Close()

	txRepo := repository.NewGormTransactionRepository(db)
	alertRepo := repository.NewGormAlertRepository(db)
	walletService := service.NewWalletService(txRepo, repository.NewGormWalletRepository(db), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ing := ingester.New(consumer, txRepo, alertRepo, walletService, publisher, nil, log, cfg.Ingester)
	if err := ing.Start(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Ingester failed: %v", err)
	}
	log.Info("Ingester shut down cleanly")
}
