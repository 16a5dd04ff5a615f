package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert rule kinds.
const (
	AlertTypeVolume = "volume"
	AlertTypeWallet = "wallet"
)

// AlertRule is a user subscription: either a volume threshold over all
// transactions or a watch on one wallet address. Rules start active and only
// leave that state on explicit deactivation.
type AlertRule struct {
	ID              string              `gorm:"column:id;primaryKey" json:"id"`
	UserID          string              `gorm:"column:user_id" json:"user_id"`
	AlertType       string              `gorm:"column:alert_type" json:"alert_type"`
	VolumeThreshold decimal.NullDecimal `gorm:"column:volume_threshold;type:Nullable(Decimal(38,18))" json:"volume_threshold"`
	WalletAddress   string              `gorm:"column:wallet_address" json:"wallet_address"`
	IsActive        bool                `gorm:"column:is_active" json:"is_active"`
	CreatedAt       time.Time           `gorm:"column:created_at;type:DateTime64(3)" json:"created_at"`
}

func (AlertRule) TableName() string {
	return "alerts"
}

func (AlertRule) TableOptions() string {
	return "ENGINE = ReplacingMergeTree() ORDER BY (id)"
}

// FiredAlert is the notification event produced when an active rule matches a
// transaction. It is emitted for delivery, not persisted by the evaluator.
type FiredAlert struct {
	AlertID       string          `json:"alert_id"`
	AlertType     string          `json:"alert_type"`
	UserID        string          `json:"user_id"`
	TransactionID string          `json:"transaction_id"`
	WalletAddress string          `json:"wallet_address"`
	Volume        decimal.Decimal `json:"volume"`
	FiredAt       time.Time       `json:"fired_at"`
}
