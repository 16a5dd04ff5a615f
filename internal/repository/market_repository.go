// Package repository provides GORM-backed data access. Every repository is an
// interface so the store stays a generic query capability.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/polymatrix/tracker/internal/model"
)

type MarketRepository interface {
	// ListSnapshots returns the latest snapshot per symbol, ordered by
	// market cap descending.
	ListSnapshots(ctx context.Context) ([]model.CoinSnapshot, error)

	// UpsertSnapshot writes the current state for one symbol, replacing any
	// previous row.
	UpsertSnapshot(ctx context.Context, snap *model.CoinSnapshot) error
}

type gormMarketRepository struct {
	db *gorm.DB
}

func NewGormMarketRepository(db *gorm.DB) MarketRepository {
	return &gormMarketRepository{db: db}
}

func (r *gormMarketRepository) ListSnapshots(ctx context.Context) ([]model.CoinSnapshot, error) {
	// ReplacingMergeTree dedups lazily, so pick the newest row per symbol
	// explicitly instead of trusting merge timing.
	subQuery := r.db.WithContext(ctx).Model(&model.CoinSnapshot{}).
		Select("*, ROW_NUMBER() OVER (PARTITION BY symbol ORDER BY updated_at DESC) as rn")

	var snapshots []model.CoinSnapshot
	err := r.db.WithContext(ctx).Table("(?) as latest", subQuery).
		Where("rn = 1").
		Order("market_cap DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *gormMarketRepository) UpsertSnapshot(ctx context.Context, snap *model.CoinSnapshot) error {
	return r.db.WithContext(ctx).Create(snap).Error
}
