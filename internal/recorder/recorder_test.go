package recorder

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/model"
)

type fakeMarketRepo struct {
	mu      sync.Mutex
	fail    map[string]bool
	upserts []string
}

func (f *fakeMarketRepo) ListSnapshots(context.Context) ([]model.CoinSnapshot, error) {
	return nil, nil
}

func (f *fakeMarketRepo) UpsertSnapshot(_ context.Context, snap *model.CoinSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[snap.Symbol] {
		return errors.New("store unavailable")
	}
	f.upserts = append(f.upserts, snap.Symbol)
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	fail    map[string]bool
	appends []model.HistoricalPricePoint
}

func (f *fakeHistoryRepo) Append(_ context.Context, point *model.HistoricalPricePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[point.Symbol] {
		return errors.New("store unavailable")
	}
	f.appends = append(f.appends, *point)
	return nil
}

func (f *fakeHistoryRepo) ListBySymbol(context.Context, string, int) ([]model.HistoricalPricePoint, error) {
	return nil, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func cycleSnapshots(symbols ...string) []model.CoinSnapshot {
	now := time.Now().UTC()
	out := make([]model.CoinSnapshot, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, model.CoinSnapshot{
			Symbol:    s,
			Price:     decimal.NewFromInt(100),
			Volume24h: decimal.NewFromInt(10),
			UpdatedAt: now,
		})
	}
	return out
}

func TestRunCycleWritesAllCoins(t *testing.T) {
	markets := &fakeMarketRepo{}
	history := &fakeHistoryRepo{}
	rec := New(markets, history, quietLogger())

	err := rec.RunCycle(context.Background(), cycleSnapshots("BTC", "ETH", "SOL"))
	if err != nil {
		t.Fatalf("Expected clean cycle, got %v", err)
	}
	if len(markets.upserts) != 3 {
		t.Errorf("Expected 3 upserts, got %d", len(markets.upserts))
	}
	if len(history.appends) != 3 {
		t.Errorf("Expected 3 history appends, got %d", len(history.appends))
	}
}

func TestRunCycleIsolatesFailures(t *testing.T) {
	markets := &fakeMarketRepo{fail: map[string]bool{"ETH": true}}
	history := &fakeHistoryRepo{}
	rec := New(markets, history, quietLogger())

	err := rec.RunCycle(context.Background(), cycleSnapshots("BTC", "ETH", "SOL"))

	var partial *apperr.PartialWriteError
	if !errors.As(err, &partial) {
		t.Fatalf("Expected PartialWriteError, got %v", err)
	}
	if len(partial.FailedSymbols) != 1 || partial.FailedSymbols[0] != "ETH" {
		t.Errorf("Expected failed symbols [ETH], got %v", partial.FailedSymbols)
	}
	// The other coins must still be written.
	if len(markets.upserts) != 2 {
		t.Errorf("Expected 2 successful upserts, got %d", len(markets.upserts))
	}
}

func TestRunCycleHistoryFailureReported(t *testing.T) {
	markets := &fakeMarketRepo{}
	history := &fakeHistoryRepo{fail: map[string]bool{"BTC": true}}
	rec := New(markets, history, quietLogger())

	err := rec.RunCycle(context.Background(), cycleSnapshots("BTC", "ETH"))

	var partial *apperr.PartialWriteError
	if !errors.As(err, &partial) {
		t.Fatalf("Expected PartialWriteError, got %v", err)
	}
	if len(partial.FailedSymbols) != 1 || partial.FailedSymbols[0] != "BTC" {
		t.Errorf("Expected failed symbols [BTC], got %v", partial.FailedSymbols)
	}
}

func TestRunCycleEmptyBatch(t *testing.T) {
	rec := New(&fakeMarketRepo{}, &fakeHistoryRepo{}, quietLogger())

	if err := rec.RunCycle(context.Background(), nil); err != nil {
		t.Errorf("Expected empty batch to be a no-op, got %v", err)
	}
}

func TestRunCycleStampsHistoryWithSnapshotTime(t *testing.T) {
	markets := &fakeMarketRepo{}
	history := &fakeHistoryRepo{}
	rec := New(markets, history, quietLogger())

	snaps := cycleSnapshots("BTC")
	if err := rec.RunCycle(context.Background(), snaps); err != nil {
		t.Fatalf("Expected clean cycle, got %v", err)
	}
	if !history.appends[0].Timestamp.Equal(snaps[0].UpdatedAt) {
		t.Errorf("History point should carry the ingestion timestamp, got %v", history.appends[0].Timestamp)
	}
}
