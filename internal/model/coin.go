package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoinSnapshot is the latest observed market state for one coin. Rows are
// upserted by symbol on every update cycle, last write wins.
type CoinSnapshot struct {
	Symbol         string          `gorm:"column:symbol;primaryKey" json:"symbol"`
	Name           string          `gorm:"column:name" json:"name"`
	Price          decimal.Decimal `gorm:"column:price;type:Decimal(38,18)" json:"price"`
	Volume24h      decimal.Decimal `gorm:"column:volume_24h;type:Decimal(38,18)" json:"volume_24h"`
	PriceChange24h decimal.Decimal `gorm:"column:price_change_24h;type:Decimal(18,8)" json:"price_change_24h"`
	MarketCap      decimal.Decimal `gorm:"column:market_cap;type:Decimal(38,18)" json:"market_cap"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;type:DateTime64(3)" json:"updated_at"`
}

func (CoinSnapshot) TableName() string {
	return "market_data"
}

func (CoinSnapshot) TableOptions() string {
	return "ENGINE = ReplacingMergeTree(updated_at) ORDER BY (symbol)"
}

// HistoricalPricePoint is one append-only point in a coin's price series.
// One row per coin per update cycle, never rewritten.
type HistoricalPricePoint struct {
	Symbol    string          `gorm:"column:symbol" json:"symbol"`
	Price     decimal.Decimal `gorm:"column:price;type:Decimal(38,18)" json:"price"`
	Volume    decimal.Decimal `gorm:"column:volume;type:Decimal(38,18)" json:"volume"`
	Timestamp time.Time       `gorm:"column:timestamp;type:DateTime64(3)" json:"timestamp"`
}

func (HistoricalPricePoint) TableName() string {
	return "historical_prices"
}

func (HistoricalPricePoint) TableOptions() string {
	return "ENGINE = MergeTree() ORDER BY (symbol, timestamp)"
}

// MarketOverview is derived from the current CoinSnapshot set on each request.
// It is never stored.
type MarketOverview struct {
	TotalMarketCap decimal.Decimal `json:"totalMarketCap"`
	TotalVolume24h decimal.Decimal `json:"totalVolume24h"`
	BTCDominance   decimal.Decimal `json:"btcDominance"`
	TotalCoins     int             `json:"totalCoins"`
}
