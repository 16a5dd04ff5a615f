package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/model"
)

type WalletRepository interface {
	// Save overwrites the cached metrics snapshot for one address.
	Save(ctx context.Context, wallet *model.Wallet) error

	// Get returns the latest snapshot for one address, or apperr.ErrNotFound.
	Get(ctx context.Context, address string) (*model.Wallet, error)

	// ListLatest returns the newest snapshot per known address.
	ListLatest(ctx context.Context) ([]model.Wallet, error)
}

type gormWalletRepository struct {
	db *gorm.DB
}

func NewGormWalletRepository(db *gorm.DB) WalletRepository {
	return &gormWalletRepository{db: db}
}

func (r *gormWalletRepository) Save(ctx context.Context, wallet *model.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *gormWalletRepository) Get(ctx context.Context, address string) (*model.Wallet, error) {
	var wallet model.Wallet
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Order("updated_at desc").
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *gormWalletRepository) ListLatest(ctx context.Context) ([]model.Wallet, error) {
	subQuery := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Select("*, ROW_NUMBER() OVER (PARTITION BY address ORDER BY updated_at DESC) as rn")

	var wallets []model.Wallet
	err := r.db.WithContext(ctx).Table("(?) as latest", subQuery).
		Where("rn = 1").
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}
