package service

import (
	"context"
	"strings"

	"github.com/polymatrix/tracker/internal/market"
	"github.com/polymatrix/tracker/internal/model"
	"github.com/polymatrix/tracker/internal/repository"
)

// DefaultHistoryLimit caps the historical series returned per symbol.
const DefaultHistoryLimit = 100

// MarketOverviewResponse is the dashboard payload: derived overview, top
// movers, and the full coin list ordered by market cap.
type MarketOverviewResponse struct {
	Overview   model.MarketOverview `json:"overview"`
	TopGainers []model.CoinSnapshot `json:"topGainers"`
	TopLosers  []model.CoinSnapshot `json:"topLosers"`
	AllCoins   []model.CoinSnapshot `json:"allCoins"`
}

type MarketService struct {
	markets repository.MarketRepository
	history repository.HistoryRepository
}

func NewMarketService(markets repository.MarketRepository, history repository.HistoryRepository) *MarketService {
	return &MarketService{
		markets: markets,
		history: history,
	}
}

// Overview recomputes market statistics from the latest snapshot set. Nothing
// here is cached; an empty store yields a zero overview and empty lists.
func (s *MarketService) Overview(ctx context.Context) (*MarketOverviewResponse, error) {
	snapshots, err := s.markets.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	gainers, losers := market.TopMovers(snapshots, market.DefaultMoversLimit)
	return &MarketOverviewResponse{
		Overview:   market.ComputeOverview(snapshots),
		TopGainers: gainers,
		TopLosers:  losers,
		AllCoins:   snapshots,
	}, nil
}

// History returns the newest price points for one symbol.
func (s *MarketService) History(ctx context.Context, symbol string, limit int) ([]model.HistoricalPricePoint, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.history.ListBySymbol(ctx, strings.ToUpper(symbol), limit)
}
