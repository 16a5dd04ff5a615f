package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polymatrix/tracker/internal/model"
)

func closedTrade(profit float64, ts time.Time) model.Transaction {
	return model.Transaction{
		Timestamp:      ts,
		Side:           model.SideSell,
		Volume:         decimal.NewFromInt(1),
		Price:          decimal.NewFromInt(1),
		RealizedProfit: decimal.NewNullDecimal(decimal.NewFromFloat(profit)),
	}
}

func openBuy(volume float64, ts time.Time) model.Transaction {
	return model.Transaction{
		Timestamp: ts,
		Side:      model.SideBuy,
		Volume:    decimal.NewFromFloat(volume),
		Price:     decimal.NewFromInt(1),
	}
}

func TestAnalyzeScenario(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		closedTrade(100, base),
		closedTrade(-50, base.Add(time.Hour)),
		closedTrade(30, base.Add(2*time.Hour)),
	}

	m := Analyze(txs)

	if m.TradeCount != 3 {
		t.Errorf("Expected trade count 3, got %d", m.TradeCount)
	}
	if !m.TotalProfit.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected total profit 80, got %s", m.TotalProfit)
	}
	expected := decimal.RequireFromString("66.67")
	if m.WinRate.Sub(expected).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("Expected win rate ~66.67, got %s", m.WinRate)
	}
	if m.LastActivity == nil || !m.LastActivity.Equal(base.Add(2*time.Hour)) {
		t.Errorf("Expected last activity at latest timestamp, got %v", m.LastActivity)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	m := Analyze(nil)

	if m.TradeCount != 0 {
		t.Errorf("Expected zero trade count, got %d", m.TradeCount)
	}
	if !m.WinRate.IsZero() {
		t.Errorf("Expected zero win rate, got %s", m.WinRate)
	}
	if !m.ROI.IsZero() {
		t.Errorf("Expected zero ROI, got %s", m.ROI)
	}
	if !m.TotalProfit.IsZero() {
		t.Errorf("Expected zero total profit, got %s", m.TotalProfit)
	}
	if m.LastActivity != nil {
		t.Errorf("Expected no last activity, got %v", m.LastActivity)
	}
}

func TestAnalyzeOpenPositionsExcluded(t *testing.T) {
	base := time.Now().UTC()
	txs := []model.Transaction{
		closedTrade(10, base),
		openBuy(500, base.Add(time.Minute)),
	}

	m := Analyze(txs)

	if m.TradeCount != 1 {
		t.Errorf("Open positions must not count as trades: got %d", m.TradeCount)
	}
	if !m.WinRate.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected win rate 100, got %s", m.WinRate)
	}
	if m.LastActivity == nil || !m.LastActivity.Equal(base.Add(time.Minute)) {
		t.Errorf("Last activity should include open positions, got %v", m.LastActivity)
	}
}

func TestAnalyzeROIUsesBuyVolume(t *testing.T) {
	base := time.Now().UTC()
	txs := []model.Transaction{
		openBuy(400, base),
		closedTrade(100, base.Add(time.Hour)),
	}

	m := Analyze(txs)

	// 100 profit over 400 deployed = 25%
	if !m.ROI.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected ROI 25, got %s", m.ROI)
	}
}

func TestAnalyzeROIZeroWithoutBuys(t *testing.T) {
	txs := []model.Transaction{
		closedTrade(100, time.Now().UTC()),
	}

	m := Analyze(txs)

	if !m.ROI.IsZero() {
		t.Errorf("Expected zero ROI with zero BUY volume, got %s", m.ROI)
	}
}

func TestAnalyzeWithBaselineOverridesProxy(t *testing.T) {
	base := time.Now().UTC()
	txs := []model.Transaction{
		openBuy(400, base),
		closedTrade(100, base.Add(time.Hour)),
	}

	m := AnalyzeWithBaseline(txs, decimal.NewFromInt(1000))

	// 100 profit over 1000 initial capital = 10%
	if !m.ROI.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected ROI 10 with explicit baseline, got %s", m.ROI)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	base := time.Now().UTC()
	txs := []model.Transaction{
		openBuy(400, base),
		closedTrade(100, base.Add(time.Hour)),
		closedTrade(-30, base.Add(2*time.Hour)),
	}

	first := Analyze(txs)
	second := Analyze(txs)

	if !first.ROI.Equal(second.ROI) ||
		!first.WinRate.Equal(second.WinRate) ||
		!first.TotalProfit.Equal(second.TotalProfit) ||
		first.TradeCount != second.TradeCount {
		t.Error("Analyze must be deterministic over the same transaction set")
	}
}
