// Package recorder runs the market-data ingestion cycle: upsert the current
// snapshot per coin and append one historical price point per coin.
package recorder

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/model"
	"github.com/polymatrix/tracker/internal/repository"
)

// maxConcurrentWrites bounds the per-coin fan-out against the store.
const maxConcurrentWrites = 8

type Recorder struct {
	markets repository.MarketRepository
	history repository.HistoryRepository
	logger  *logrus.Logger
}

func New(markets repository.MarketRepository, history repository.HistoryRepository, logger *logrus.Logger) *Recorder {
	return &Recorder{
		markets: markets,
		history: history,
		logger:  logger,
	}
}

// RunCycle writes the snapshot batch to the store. Each coin gets a snapshot
// upsert and an immutable history append stamped with the snapshot time.
// Failures are isolated per coin: the cycle attempts every coin and reports
// the failed symbols in a PartialWriteError instead of aborting. There is no
// in-cycle retry; the next scheduled cycle re-fetches current state.
func (r *Recorder) RunCycle(ctx context.Context, snapshots []model.CoinSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	var mu sync.Mutex
	var failed []string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)

	for i := range snapshots {
		snap := snapshots[i]
		g.Go(func() error {
			if err := r.writeCoin(ctx, &snap); err != nil {
				r.logger.WithField("symbol", snap.Symbol).Errorf("Cycle write failed: %v", err)
				mu.Lock()
				failed = append(failed, snap.Symbol)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		return &apperr.PartialWriteError{FailedSymbols: failed}
	}
	return nil
}

func (r *Recorder) writeCoin(ctx context.Context, snap *model.CoinSnapshot) error {
	if err := r.markets.UpsertSnapshot(ctx, snap); err != nil {
		return err
	}
	return r.history.Append(ctx, &model.HistoricalPricePoint{
		Symbol:    snap.Symbol,
		Price:     snap.Price,
		Volume:    snap.Volume24h,
		Timestamp: snap.UpdatedAt,
	})
}
