package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polymatrix/tracker/internal/alerts"
	"github.com/polymatrix/tracker/internal/model"
	"github.com/polymatrix/tracker/internal/repository"
)

// AnonymousUser is the opaque owner used when no user id is supplied.
const AnonymousUser = "anonymous"

// CreateAlertRequest carries the fields of a new alert subscription.
type CreateAlertRequest struct {
	UserID          string           `json:"user_id"`
	AlertType       string           `json:"alert_type" binding:"required"`
	VolumeThreshold *decimal.Decimal `json:"volume_threshold"`
	WalletAddress   string           `json:"wallet_address"`
}

type AlertService struct {
	repo repository.AlertRepository
}

func NewAlertService(repo repository.AlertRepository) *AlertService {
	return &AlertService{repo: repo}
}

// Create validates and persists a new rule. Malformed rules are rejected with
// a ValidationError and never stored. New rules start active.
func (s *AlertService) Create(ctx context.Context, req CreateAlertRequest) (*model.AlertRule, error) {
	userID := req.UserID
	if userID == "" {
		userID = AnonymousUser
	}

	rule := &model.AlertRule{
		ID:            uuid.NewString(),
		UserID:        userID,
		AlertType:     req.AlertType,
		WalletAddress: req.WalletAddress,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
	if req.VolumeThreshold != nil {
		rule.VolumeThreshold = decimal.NewNullDecimal(*req.VolumeThreshold)
	}

	if err := alerts.ValidateRule(rule); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListActive returns a user's active rules, newest first. An empty user id
// maps to the anonymous owner.
func (s *AlertService) ListActive(ctx context.Context, userID string) ([]model.AlertRule, error) {
	if userID == "" {
		userID = AnonymousUser
	}
	return s.repo.ListActiveByUser(ctx, userID)
}

// Deactivate soft-disables a rule. Deactivation is the only transition out of
// the active state; firing never deactivates a rule.
func (s *AlertService) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}
