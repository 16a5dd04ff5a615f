package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/polymatrix/tracker/internal/model"
)

type HistoryRepository interface {
	// Append adds one immutable price point to a coin's series.
	Append(ctx context.Context, point *model.HistoricalPricePoint) error

	// ListBySymbol returns the newest points for one symbol, timestamp
	// descending.
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]model.HistoricalPricePoint, error)
}

type gormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) HistoryRepository {
	return &gormHistoryRepository{db: db}
}

func (r *gormHistoryRepository) Append(ctx context.Context, point *model.HistoricalPricePoint) error {
	return r.db.WithContext(ctx).Create(point).Error
}

func (r *gormHistoryRepository) ListBySymbol(ctx context.Context, symbol string, limit int) ([]model.HistoricalPricePoint, error) {
	var points []model.HistoricalPricePoint
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp desc").
		Limit(limit).
		Find(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}
