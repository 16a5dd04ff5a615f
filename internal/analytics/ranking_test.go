package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/polymatrix/tracker/internal/model"
)

func rankedWallet(address string, roi, profit float64) model.Wallet {
	return model.Wallet{
		Address:     address,
		ROI:         decimal.NewFromFloat(roi),
		TotalProfit: decimal.NewFromFloat(profit),
	}
}

func collect(wallets []model.Wallet) []string {
	addresses := make([]string, 0, len(wallets))
	for _, w := range wallets {
		addresses = append(addresses, w.Address)
	}
	return addresses
}

func TestRankOrdersByROIDescending(t *testing.T) {
	wallets := []model.Wallet{
		rankedWallet("0xaaa", 10, 0),
		rankedWallet("0xbbb", 50, 0),
		rankedWallet("0xccc", 25, 0),
	}

	got := collect(TopN(wallets, -1))
	want := []string{"0xbbb", "0xccc", "0xaaa"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

func TestRankTieBreaks(t *testing.T) {
	wallets := []model.Wallet{
		rankedWallet("0xccc", 20, 100),
		rankedWallet("0xbbb", 20, 500),
		rankedWallet("0xaaa", 20, 100),
	}

	got := collect(TopN(wallets, -1))
	// Equal ROI: profit descending, then address ascending.
	want := []string{"0xbbb", "0xaaa", "0xccc"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

func TestRankPrefixStopsEarly(t *testing.T) {
	wallets := []model.Wallet{
		rankedWallet("0xaaa", 1, 0),
		rankedWallet("0xbbb", 2, 0),
		rankedWallet("0xccc", 3, 0),
	}

	var seen int
	for range Rank(wallets) {
		seen++
		if seen == 1 {
			break
		}
	}
	if seen != 1 {
		t.Errorf("Expected iteration to stop after prefix, saw %d", seen)
	}
}

func TestRankRestartable(t *testing.T) {
	wallets := []model.Wallet{
		rankedWallet("0xaaa", 1, 0),
		rankedWallet("0xbbb", 2, 0),
	}

	seq := Rank(wallets)

	var first []string
	for w := range seq {
		first = append(first, w.Address)
	}
	var second []string
	for w := range seq {
		second = append(second, w.Address)
	}

	if len(first) != len(second) {
		t.Fatalf("Expected restartable sequence, got %d then %d items", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Re-ranging changed order at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	wallets := []model.Wallet{
		rankedWallet("0xbbb", 1, 0),
		rankedWallet("0xaaa", 2, 0),
	}

	TopN(wallets, -1)

	if wallets[0].Address != "0xbbb" {
		t.Error("Rank must not reorder the caller's slice")
	}
}

func TestTopNTruncates(t *testing.T) {
	wallets := []model.Wallet{
		rankedWallet("0xaaa", 1, 0),
		rankedWallet("0xbbb", 2, 0),
		rankedWallet("0xccc", 3, 0),
	}

	top := TopN(wallets, 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 wallets, got %d", len(top))
	}
	if top[0].Address != "0xccc" {
		t.Errorf("Expected best wallet first, got %s", top[0].Address)
	}
}
