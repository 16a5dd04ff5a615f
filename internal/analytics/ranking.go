package analytics

import (
	"iter"
	"sort"

	"github.com/polymatrix/tracker/internal/model"
)

// Rank orders wallet snapshots by ROI descending, breaking ties by total
// profit descending and then address ascending so the leaderboard is fully
// deterministic. The result is a restartable sequence: callers can stop after
// any prefix (e.g. the top 50) and re-range from the start again.
//
// Ranking has no persisted identity of its own; it is recomputed from the
// cached wallet snapshots on every call.
func Rank(wallets []model.Wallet) iter.Seq[model.Wallet] {
	ranked := make([]model.Wallet, len(wallets))
	copy(ranked, wallets)
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].ROI.Cmp(ranked[j].ROI); c != 0 {
			return c > 0
		}
		if c := ranked[i].TotalProfit.Cmp(ranked[j].TotalProfit); c != 0 {
			return c > 0
		}
		return ranked[i].Address < ranked[j].Address
	})

	return func(yield func(model.Wallet) bool) {
		for _, w := range ranked {
			if !yield(w) {
				return
			}
		}
	}
}

// TopN materializes the first n wallets of the ranking. n < 0 returns the
// whole ranking.
func TopN(wallets []model.Wallet, n int) []model.Wallet {
	out := make([]model.Wallet, 0, len(wallets))
	for w := range Rank(wallets) {
		if n >= 0 && len(out) == n {
			break
		}
		out = append(out, w)
	}
	return out
}
