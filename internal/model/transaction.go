package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Transaction is one immutable trade event for a wallet. RealizedProfit is
// null while the position is still open.
type Transaction struct {
	ID             string              `gorm:"column:id;primaryKey" json:"id"`
	WalletAddress  string              `gorm:"column:wallet_address" json:"wallet_address"`
	Timestamp      time.Time           `gorm:"column:timestamp;type:DateTime64(3)" json:"timestamp"`
	TradingPair    string              `gorm:"column:trading_pair" json:"trading_pair"`
	Volume         decimal.Decimal     `gorm:"column:volume;type:Decimal(38,18)" json:"volume"`
	Price          decimal.Decimal     `gorm:"column:price;type:Decimal(38,18)" json:"price"`
	Side           string              `gorm:"column:side" json:"side"`
	Hash           string              `gorm:"column:hash" json:"hash"`
	RealizedProfit decimal.NullDecimal `gorm:"column:realized_profit;type:Nullable(Decimal(38,18))" json:"realized_profit"`
	InsertedAt     time.Time           `gorm:"column:inserted_at;type:DateTime64(3);default:now()" json:"inserted_at"`
}

func (Transaction) TableName() string {
	return "crypto_transactions"
}

func (Transaction) TableOptions() string {
	return "ENGINE = ReplacingMergeTree() ORDER BY (id)"
}
