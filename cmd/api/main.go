package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"

	"github.com/polymatrix/tracker/configs"
	"github.com/polymatrix/tracker/internal/feed"
	"github.com/polymatrix/tracker/internal/handler"
	"github.com/polymatrix/tracker/internal/ingester"
	"github.com/polymatrix/tracker/internal/logger"
	"github.com/polymatrix/tracker/internal/repository"
	"github.com/polymatrix/tracker/internal/router"
	"github.com/polymatrix/tracker/internal/service"
)

func main() {
	cfg := configs.AppLoad()
	log := logger.New(cfg.LogJSON)

	db, err := gorm.Open(clickhouse.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before serving")
	ingestFlag := flag.Bool("ingest", true, "Run the transaction ingester in-process")
	flag.Parse()

	if *migrateFlag {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to get sql.DB: %v", err)
		}
		if err := goose.SetDialect("clickhouse"); err != nil {
			log.Fatalf("Goose: failed to set dialect: %v", err)
		}
		log.Info("Running database migrations...")
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			log.Fatalf("Goose migration failed: %v", err)
		}
	}

	marketRepo := repository.NewGormMarketRepository(db)
	historyRepo := repository.NewGormHistoryRepository(db)
	txRepo := repository.NewGormTransactionRepository(db)
	walletRepo := repository.NewGormWalletRepository(db)
	alertRepo := repository.NewGormAlertRepository(db)

	marketService := service.NewMarketService(marketRepo, historyRepo)
	walletService := service.NewWalletService(txRepo, walletRepo, log)
	alertService := service.NewAlertService(alertRepo)

	hub := feed.NewHub(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The in-process ingester keeps the WebSocket feed live without a
	// separate deployment. Disable it when running cmd/ingester standalone.
	if *ingestFlag {
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

		publisher, err := ingester.NewKafkaAlertPublisher(cfg.KafkaAlerts, log)
		if err != nil {
			log.Fatalf("Failed to create alert publisher: %v", err)
		}
		defer publisher.Close()

		ing := ingester.New(consumer, txRepo, alertRepo, walletService, publisher, hub, log, cfg.Ingester)
		go func() {
			if err := ing.Start(ctx); err != nil && ctx.Err() == nil {
				log.Errorf("Ingester stopped: %v", err)
			}
		}()
	}

	routerConfig := &router.Config{
		MarketHandler: handler.NewMarketHandler(marketService),
		WalletHandler: handler.NewWalletHandler(walletService),
		AlertHandler:  handler.NewAlertHandler(alertService),
		FeedHandler:   handler.NewFeedHandler(hub),
	}
	r := router.NewRouter(routerConfig)

	if err := r.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		log.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
