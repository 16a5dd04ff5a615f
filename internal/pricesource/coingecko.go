// Package pricesource fetches current coin prices from the market data
// provider.
package pricesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/polymatrix/tracker/configs"
	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/model"
)

const (
	maxRetries       = 3
	rateLimitBackoff = 60 * time.Second
)

// Source is a read-only batch fetch of current coin market data.
type Source interface {
	FetchSnapshots(ctx context.Context) ([]model.CoinSnapshot, error)
}

// marketCoin mirrors one entry of the CoinGecko /coins/markets response.
// Optional numeric fields are pointers; missing values are treated as zero.
type marketCoin struct {
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	CurrentPrice   *float64 `json:"current_price"`
	TotalVolume    *float64 `json:"total_volume"`
	PriceChange24h *float64 `json:"price_change_percentage_24h"`
	MarketCap      *float64 `json:"market_cap"`
}

// CoinGecko fetches the top coins by market cap from the CoinGecko API.
// Requests are rate limited to stay under the free-tier quota, and 429
// responses are retried with a long backoff.
type CoinGecko struct {
	cfg        configs.PriceSourceConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

func NewCoinGecko(cfg configs.PriceSourceConfig, logger *logrus.Logger) *CoinGecko {
	return &CoinGecko{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), 1),
		logger:     logger,
	}
}

// FetchSnapshots returns one snapshot per tracked coin, ordered by market cap
// descending as returned by the provider. A non-2xx response or transport
// failure surfaces as an UpstreamFetchError for the caller to abort the cycle.
func (cg *CoinGecko) FetchSnapshots(ctx context.Context) ([]model.CoinSnapshot, error) {
	url := fmt.Sprintf(
		"%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1&sparkline=false&price_change_percentage=24h",
		cg.cfg.BaseURL, cg.cfg.CoinsPerPage,
	)

	var coins []marketCoin
	backoff := retry.WithMaxRetries(maxRetries, retry.NewConstant(rateLimitBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := cg.limiter.Wait(ctx); err != nil {
			return err
		}
		fetched, err := cg.fetchPage(ctx, url)
		if err != nil {
			var upstream *apperr.UpstreamFetchError
			if errors.As(err, &upstream) && upstream.Status == http.StatusTooManyRequests {
				cg.logger.Warnf("Rate limited by price source, backing off %s", rateLimitBackoff)
				return retry.RetryableError(err)
			}
			return err
		}
		coins = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snapshots := make([]model.CoinSnapshot, 0, len(coins))
	for _, c := range coins {
		snapshots = append(snapshots, model.CoinSnapshot{
			Symbol:         strings.ToUpper(c.Symbol),
			Name:           c.Name,
			Price:          fromOptional(c.CurrentPrice),
			Volume24h:      fromOptional(c.TotalVolume),
			PriceChange24h: fromOptional(c.PriceChange24h),
			MarketCap:      fromOptional(c.MarketCap),
			UpdatedAt:      now,
		})
	}
	return snapshots, nil
}

func (cg *CoinGecko) fetchPage(ctx context.Context, url string) ([]marketCoin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := cg.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.UpstreamFetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperr.UpstreamFetchError{Status: resp.StatusCode}
	}

	var coins []marketCoin
	if err := json.NewDecoder(resp.Body).Decode(&coins); err != nil {
		return nil, &apperr.UpstreamFetchError{Err: err}
	}
	return coins, nil
}

func fromOptional(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}
