package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polymatrix/tracker/internal/model"
)

type fakeMarketRepo struct {
	snapshots []model.CoinSnapshot
}

func (f *fakeMarketRepo) ListSnapshots(context.Context) ([]model.CoinSnapshot, error) {
	return f.snapshots, nil
}

func (f *fakeMarketRepo) UpsertSnapshot(_ context.Context, snap *model.CoinSnapshot) error {
	f.snapshots = append(f.snapshots, *snap)
	return nil
}

type fakeHistoryRepo struct {
	points map[string][]model.HistoricalPricePoint
}

func (f *fakeHistoryRepo) Append(_ context.Context, point *model.HistoricalPricePoint) error {
	if f.points == nil {
		f.points = make(map[string][]model.HistoricalPricePoint)
	}
	f.points[point.Symbol] = append(f.points[point.Symbol], *point)
	return nil
}

func (f *fakeHistoryRepo) ListBySymbol(_ context.Context, symbol string, limit int) ([]model.HistoricalPricePoint, error) {
	points := f.points[symbol]
	if len(points) > limit {
		points = points[:limit]
	}
	return points, nil
}

func TestOverviewResponse(t *testing.T) {
	markets := &fakeMarketRepo{snapshots: []model.CoinSnapshot{
		{Symbol: "BTC", MarketCap: decimal.NewFromInt(1_000_000), PriceChange24h: decimal.NewFromFloat(2.5)},
		{Symbol: "ETH", MarketCap: decimal.NewFromInt(500_000), PriceChange24h: decimal.NewFromFloat(-1.0)},
	}}
	svc := NewMarketService(markets, &fakeHistoryRepo{})

	resp, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Expected overview, got error: %v", err)
	}
	if !resp.Overview.TotalMarketCap.Equal(decimal.NewFromInt(1_500_000)) {
		t.Errorf("Expected total cap 1500000, got %s", resp.Overview.TotalMarketCap)
	}
	if len(resp.TopGainers) != 1 || resp.TopGainers[0].Symbol != "BTC" {
		t.Errorf("Expected BTC as only gainer, got %v", resp.TopGainers)
	}
	if len(resp.TopLosers) != 1 || resp.TopLosers[0].Symbol != "ETH" {
		t.Errorf("Expected ETH as only loser, got %v", resp.TopLosers)
	}
	if len(resp.AllCoins) != 2 {
		t.Errorf("Expected full coin list, got %d", len(resp.AllCoins))
	}
}

func TestOverviewEmptyStore(t *testing.T) {
	svc := NewMarketService(&fakeMarketRepo{}, &fakeHistoryRepo{})

	resp, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Expected empty overview, got error: %v", err)
	}
	if resp.Overview.TotalCoins != 0 || !resp.Overview.BTCDominance.IsZero() {
		t.Error("Empty store must yield zero overview")
	}
	if len(resp.TopGainers) != 0 || len(resp.TopLosers) != 0 {
		t.Error("Empty store must yield empty mover lists")
	}
}

func TestHistoryNormalizesSymbol(t *testing.T) {
	history := &fakeHistoryRepo{points: map[string][]model.HistoricalPricePoint{
		"BTC": {{Symbol: "BTC", Price: decimal.NewFromInt(100), Timestamp: time.Now().UTC()}},
	}}
	svc := NewMarketService(&fakeMarketRepo{}, history)

	points, err := svc.History(context.Background(), "btc", 0)
	if err != nil {
		t.Fatalf("Expected history, got error: %v", err)
	}
	if len(points) != 1 {
		t.Errorf("Expected lookup to normalize symbol case, got %d points", len(points))
	}
}
