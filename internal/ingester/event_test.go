package ingester

import (
	"testing"
	"time"

	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/model"
)

func TestParseEventValid(t *testing.T) {
	payload := []byte(`{
		"id": "tx-1",
		"wallet_address": "0xabc",
		"timestamp": "2025-06-01T12:00:00Z",
		"trading_pair": "BTC/USDT",
		"volume": "15000",
		"price": "64250.5",
		"side": "BUY",
		"hash": "0xdeadbeef",
		"realized_profit": "120.5"
	}`)

	tx, err := parseEvent(payload)
	if err != nil {
		t.Fatalf("Expected valid event, got error: %v", err)
	}
	if tx.ID != "tx-1" || tx.WalletAddress != "0xabc" {
		t.Errorf("Wrong identity fields: %s / %s", tx.ID, tx.WalletAddress)
	}
	if tx.Side != model.SideBuy {
		t.Errorf("Expected BUY side, got %s", tx.Side)
	}
	if !tx.RealizedProfit.Valid {
		t.Error("Expected realized profit to be present")
	}
	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !tx.Timestamp.Equal(want) {
		t.Errorf("Expected timestamp %v, got %v", want, tx.Timestamp)
	}
}

func TestParseEventOpenPosition(t *testing.T) {
	payload := []byte(`{
		"id": "tx-2",
		"wallet_address": "0xabc",
		"timestamp": "2025-06-01T12:00:00Z",
		"trading_pair": "ETH/USDT",
		"volume": "10",
		"price": "3000",
		"side": "SELL",
		"hash": "0xfeed"
	}`)

	tx, err := parseEvent(payload)
	if err != nil {
		t.Fatalf("Expected valid event, got error: %v", err)
	}
	if tx.RealizedProfit.Valid {
		t.Error("Expected absent realized profit for open position")
	}
}

func TestParseEventRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{`},
		{"missing id", `{"wallet_address":"0xabc","volume":"1","price":"1","side":"BUY","hash":"h"}`},
		{"missing wallet", `{"id":"t","volume":"1","price":"1","side":"BUY","hash":"h"}`},
		{"missing hash", `{"id":"t","wallet_address":"0xabc","volume":"1","price":"1","side":"BUY"}`},
		{"bad side", `{"id":"t","wallet_address":"0xabc","volume":"1","price":"1","side":"HOLD","hash":"h"}`},
		{"zero volume", `{"id":"t","wallet_address":"0xabc","volume":"0","price":"1","side":"BUY","hash":"h"}`},
		{"negative price", `{"id":"t","wallet_address":"0xabc","volume":"1","price":"-5","side":"BUY","hash":"h"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEvent([]byte(tt.payload))
			if !apperr.IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestParseEventBadTimestampFallsBack(t *testing.T) {
	payload := []byte(`{
		"id": "tx-3",
		"wallet_address": "0xabc",
		"timestamp": "not-a-time",
		"volume": "1",
		"price": "1",
		"side": "BUY",
		"hash": "h"
	}`)

	before := time.Now().UTC()
	tx, err := parseEvent(payload)
	if err != nil {
		t.Fatalf("Expected valid event, got error: %v", err)
	}
	if tx.Timestamp.Before(before.Add(-time.Minute)) {
		t.Errorf("Expected fallback to current time, got %v", tx.Timestamp)
	}
}
