// Package market computes market-wide statistics from coin snapshots.
// All functions are pure: they never error on well-formed input, and an empty
// snapshot set yields zero values.
package market

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polymatrix/tracker/internal/model"
)

// DefaultMoversLimit is how many gainers/losers the dashboard shows.
const DefaultMoversLimit = 5

var hundred = decimal.NewFromInt(100)

// ComputeOverview sums market cap and 24h volume over the snapshot set and
// derives BTC dominance. Dominance is 0 when BTC is absent or the total
// market cap is zero; that is a defined result, not an error.
func ComputeOverview(snapshots []model.CoinSnapshot) model.MarketOverview {
	snapshots = dedupe(snapshots)

	overview := model.MarketOverview{TotalCoins: len(snapshots)}
	var btcCap decimal.Decimal

	for _, s := range snapshots {
		overview.TotalMarketCap = overview.TotalMarketCap.Add(s.MarketCap)
		overview.TotalVolume24h = overview.TotalVolume24h.Add(s.Volume24h)
		if strings.EqualFold(s.Symbol, "BTC") {
			btcCap = s.MarketCap
		}
	}

	if overview.TotalMarketCap.IsPositive() {
		overview.BTCDominance = btcCap.Div(overview.TotalMarketCap).Mul(hundred)
	}
	return overview
}

// TopMovers splits the snapshot set into the n best gainers and n worst
// losers by 24h percent change. Coins with exactly zero change appear in
// neither list. Ties are broken by symbol ascending so output is stable
// across runs.
func TopMovers(snapshots []model.CoinSnapshot, n int) (gainers, losers []model.CoinSnapshot) {
	snapshots = dedupe(snapshots)

	for _, s := range snapshots {
		switch {
		case s.PriceChange24h.IsPositive():
			gainers = append(gainers, s)
		case s.PriceChange24h.IsNegative():
			losers = append(losers, s)
		}
	}

	sort.Slice(gainers, func(i, j int) bool {
		if c := gainers[i].PriceChange24h.Cmp(gainers[j].PriceChange24h); c != 0 {
			return c > 0
		}
		return gainers[i].Symbol < gainers[j].Symbol
	})
	sort.Slice(losers, func(i, j int) bool {
		if c := losers[i].PriceChange24h.Cmp(losers[j].PriceChange24h); c != 0 {
			return c < 0
		}
		return losers[i].Symbol < losers[j].Symbol
	})

	if n >= 0 && len(gainers) > n {
		gainers = gainers[:n]
	}
	if n >= 0 && len(losers) > n {
		losers = losers[:n]
	}
	return gainers, losers
}

// dedupe keeps the last snapshot per symbol, preserving first-seen order.
func dedupe(snapshots []model.CoinSnapshot) []model.CoinSnapshot {
	seen := make(map[string]int, len(snapshots))
	out := make([]model.CoinSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		key := strings.ToUpper(s.Symbol)
		if i, ok := seen[key]; ok {
			out[i] = s
			continue
		}
		seen[key] = len(out)
		out = append(out, s)
	}
	return out
}
