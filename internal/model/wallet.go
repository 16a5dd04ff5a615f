package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet caches the latest computed performance snapshot for one address.
// It is derived state: always recomputed from the full transaction set and
// overwritten, never merged.
type Wallet struct {
	Address      string          `gorm:"column:address;primaryKey" json:"address"`
	ROI          decimal.Decimal `gorm:"column:roi;type:Decimal(18,8)" json:"roi"`
	WinRate      decimal.Decimal `gorm:"column:win_rate;type:Decimal(18,8)" json:"win_rate"`
	TotalProfit  decimal.Decimal `gorm:"column:total_profit;type:Decimal(38,18)" json:"total_profit"`
	TradeCount   int64           `gorm:"column:trade_count" json:"trade_count"`
	LastActivity *time.Time      `gorm:"column:last_activity;type:Nullable(DateTime64(3))" json:"last_activity"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;type:DateTime64(3)" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (Wallet) TableOptions() string {
	return "ENGINE = ReplacingMergeTree(updated_at) ORDER BY (address)"
}
