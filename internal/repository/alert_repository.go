package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/polymatrix/tracker/internal/model"
)

type AlertRepository interface {
	// Create persists a new rule. Validation happens before this call.
	Create(ctx context.Context, rule *model.AlertRule) error

	// ListActiveByUser returns a user's active rules, newest first.
	ListActiveByUser(ctx context.Context, userID string) ([]model.AlertRule, error)

	// ListActive returns every active rule for evaluation.
	ListActive(ctx context.Context) ([]model.AlertRule, error)

	// Deactivate soft-disables one rule. Rules are never physically deleted.
	Deactivate(ctx context.Context, id string) error
}

type gormAlertRepository struct {
	db *gorm.DB
}

func NewGormAlertRepository(db *gorm.DB) AlertRepository {
	return &gormAlertRepository{db: db}
}

func (r *gormAlertRepository) Create(ctx context.Context, rule *model.AlertRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *gormAlertRepository) ListActiveByUser(ctx context.Context, userID string) ([]model.AlertRule, error) {
	var rules []model.AlertRule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *gormAlertRepository) ListActive(ctx context.Context) ([]model.AlertRule, error) {
	var rules []model.AlertRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *gormAlertRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.AlertRule{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
