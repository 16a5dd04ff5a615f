// Package alerts validates alert rules and evaluates them against incoming
// transactions.
package alerts

import (
	"time"

	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/model"
)

// ValidateRule rejects malformed rules at creation time. A volume rule needs
// a positive threshold, a wallet rule needs a watched address. Evaluation
// assumes rules passed this check.
func ValidateRule(rule *model.AlertRule) error {
	switch rule.AlertType {
	case model.AlertTypeVolume:
		if !rule.VolumeThreshold.Valid || !rule.VolumeThreshold.Decimal.IsPositive() {
			return apperr.NewValidation("volume threshold is required for volume alerts")
		}
	case model.AlertTypeWallet:
		if rule.WalletAddress == "" {
			return apperr.NewValidation("wallet address is required for wallet alerts")
		}
	default:
		return apperr.NewValidation("unknown alert type %q", rule.AlertType)
	}
	return nil
}

// Evaluate reports whether rule fires for tx. Firing never mutates the rule;
// inactive rules never fire.
func Evaluate(rule *model.AlertRule, tx *model.Transaction) bool {
	if !rule.IsActive {
		return false
	}
	switch rule.AlertType {
	case model.AlertTypeVolume:
		return rule.VolumeThreshold.Valid && tx.Volume.Cmp(rule.VolumeThreshold.Decimal) >= 0
	case model.AlertTypeWallet:
		return tx.WalletAddress == rule.WalletAddress
	}
	return false
}

// EvaluateAll runs every rule against tx and returns one independent fired
// event per matching rule. Multiple rules may fire for the same transaction;
// none of them is deactivated by firing.
func EvaluateAll(rules []model.AlertRule, tx *model.Transaction, now time.Time) []model.FiredAlert {
	var fired []model.FiredAlert
	for i := range rules {
		if !Evaluate(&rules[i], tx) {
			continue
		}
		fired = append(fired, model.FiredAlert{
			AlertID:       rules[i].ID,
			AlertType:     rules[i].AlertType,
			UserID:        rules[i].UserID,
			TransactionID: tx.ID,
			WalletAddress: tx.WalletAddress,
			Volume:        tx.Volume,
			FiredAt:       now,
		})
	}
	return fired
}
