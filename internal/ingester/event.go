package ingester

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/model"
)

// TransactionEvent is the JSON wire format of one trade event on the
// transaction topic. RealizedProfit is omitted for open positions.
type TransactionEvent struct {
	ID             string           `json:"id"`
	WalletAddress  string           `json:"wallet_address"`
	Timestamp      string           `json:"timestamp"`
	TradingPair    string           `json:"trading_pair"`
	Volume         decimal.Decimal  `json:"volume"`
	Price          decimal.Decimal  `json:"price"`
	Side           string           `json:"side"`
	Hash           string           `json:"hash"`
	RealizedProfit *decimal.Decimal `json:"realized_profit,omitempty"`
}

// parseEvent deserializes and validates one Kafka message. Malformed events
// are a ValidationError: rejected here, never persisted.
func parseEvent(payload []byte) (*model.Transaction, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, apperr.NewValidation("malformed transaction event: %v", err)
	}
	return ev.transform()
}

func (ev *TransactionEvent) transform() (*model.Transaction, error) {
	if ev.ID == "" || ev.WalletAddress == "" || ev.Hash == "" {
		return nil, apperr.NewValidation(
			"missing required fields: id=%q wallet_address=%q hash=%q",
			ev.ID, ev.WalletAddress, ev.Hash)
	}
	if ev.Side != model.SideBuy && ev.Side != model.SideSell {
		return nil, apperr.NewValidation("invalid side: %q", ev.Side)
	}
	if !ev.Volume.IsPositive() {
		return nil, apperr.NewValidation("invalid volume: %s", ev.Volume)
	}
	if !ev.Price.IsPositive() {
		return nil, apperr.NewValidation("invalid price: %s", ev.Price)
	}

	eventTime, err := time.Parse(time.RFC3339, ev.Timestamp)
	if err != nil {
		eventTime = time.Now().UTC()
	}

	tx := &model.Transaction{
		ID:            ev.ID,
		WalletAddress: ev.WalletAddress,
		Timestamp:     eventTime,
		TradingPair:   ev.TradingPair,
		Volume:        ev.Volume,
		Price:         ev.Price,
		Side:          ev.Side,
		Hash:          ev.Hash,
		InsertedAt:    time.Now().UTC(),
	}
	if ev.RealizedProfit != nil {
		tx.RealizedProfit = decimal.NewNullDecimal(*ev.RealizedProfit)
	}
	return tx, nil
}
