// Package analytics turns a wallet's transaction log into performance
// metrics and ranks wallets against each other.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polymatrix/tracker/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Metrics is one wallet's aggregate performance snapshot. It is a pure
// function of the transaction set: recomputing over the same input always
// yields the same values.
type Metrics struct {
	ROI          decimal.Decimal
	WinRate      decimal.Decimal
	TotalProfit  decimal.Decimal
	TradeCount   int64
	LastActivity *time.Time
}

// Analyze computes metrics for one wallet from its full transaction history.
// Only transactions with a booked realized profit count as closed trades for
// trade count and win rate. ROI uses the BUY-side volume sum as the capital
// baseline; see AnalyzeWithBaseline for an explicit baseline.
//
// An empty transaction set yields all-zero metrics, not an error.
func Analyze(txs []model.Transaction) Metrics {
	return AnalyzeWithBaseline(txs, decimal.Zero)
}

// AnalyzeWithBaseline is Analyze with a caller-supplied initial capital
// figure. When initialCapital is positive it replaces the BUY-volume proxy as
// the ROI denominator. The proxy stays the default because no true
// initial-investment figure is recorded anywhere in the ledger.
func AnalyzeWithBaseline(txs []model.Transaction, initialCapital decimal.Decimal) Metrics {
	// Aggregate in chronological order. The sums are order-independent but
	// keeping the walk chronological makes last-activity tracking trivial.
	ordered := make([]model.Transaction, len(txs))
	copy(ordered, txs)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var m Metrics
	var wins int64
	var buyVolume decimal.Decimal

	for _, tx := range ordered {
		if tx.RealizedProfit.Valid {
			m.TradeCount++
			m.TotalProfit = m.TotalProfit.Add(tx.RealizedProfit.Decimal)
			if tx.RealizedProfit.Decimal.IsPositive() {
				wins++
			}
		}
		if tx.Side == model.SideBuy {
			buyVolume = buyVolume.Add(tx.Volume)
		}
		ts := tx.Timestamp
		m.LastActivity = &ts
	}

	if m.TradeCount > 0 {
		m.WinRate = decimal.NewFromInt(wins).Div(decimal.NewFromInt(m.TradeCount)).Mul(hundred)
	}

	baseline := buyVolume
	if initialCapital.IsPositive() {
		baseline = initialCapital
	}
	if baseline.IsPositive() {
		m.ROI = m.TotalProfit.Div(baseline).Mul(hundred)
	}

	return m
}

// WalletSnapshot converts metrics into the cached wallet record for address.
func (m Metrics) WalletSnapshot(address string, now time.Time) model.Wallet {
	return model.Wallet{
		Address:      address,
		ROI:          m.ROI,
		WinRate:      m.WinRate,
		TotalProfit:  m.TotalProfit,
		TradeCount:   m.TradeCount,
		LastActivity: m.LastActivity,
		UpdatedAt:    now,
	}
}
