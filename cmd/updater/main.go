package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"

	"github.com/polymatrix/tracker/configs"
	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/logger"
	"github.com/polymatrix/tracker/internal/pricesource"
	"github.com/polymatrix/tracker/internal/recorder"
	"github.com/polymatrix/tracker/internal/repository"
)

func main() {
	cfg := configs.AppLoad()
	log := logger.New(cfg.LogJSON)

	db, err := gorm.Open(clickhouse.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	source := pricesource.NewCoinGecko(cfg.PriceSource, log)
	rec := recorder.New(
		repository.NewGormMarketRepository(db),
		repository.NewGormHistoryRepository(db),
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithField("interval", cfg.Updater.Interval).Info("Starting market data updater")

	// Run one cycle immediately, then on every tick. A failed cycle only
	// skips to the next tick; the process never exits on upstream errors.
	runCycle(ctx, source, rec, log)

	ticker := time.NewTicker(cfg.Updater.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Updater shutting down")
			return
		case <-ticker.C:
			runCycle(ctx, source, rec, log)
		}
	}
}

func runCycle(ctx context.Context, source pricesource.Source, rec *recorder.Recorder, log *logrus.Logger) {
	snapshots, err := source.FetchSnapshots(ctx)
	if err != nil {
		log.Errorf("Update cycle aborted: %v", err)
		return
	}

	err = rec.RunCycle(ctx, snapshots)
	var partial *apperr.PartialWriteError
	switch {
	case errors.As(err, &partial):
		log.Warnf("Update cycle completed with failures: %v", partial)
	case err != nil:
		log.Errorf("Update cycle failed: %v", err)
	default:
		log.Infof("Update cycle completed: %d coins updated", len(snapshots))
	}
}
