package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/polymatrix/tracker/internal/model"
)

type TransactionRepository interface {
	// CreateTransactions batch-inserts new transactions.
	CreateTransactions(ctx context.Context, txs []*model.Transaction) error

	// ListByWallet returns the newest transactions for one address,
	// timestamp descending (display order).
	ListByWallet(ctx context.Context, address string, limit int) ([]model.Transaction, error)

	// ListAllByWallet returns the full history for one address with no
	// limit; analytics orders it chronologically itself.
	ListAllByWallet(ctx context.Context, address string) ([]model.Transaction, error)

	// ListLatest returns the newest transactions across all wallets.
	ListLatest(ctx context.Context, limit int) ([]model.Transaction, error)

	// DistinctWallets returns every wallet address present in the ledger.
	DistinctWallets(ctx context.Context) ([]string, error)
}

type gormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) TransactionRepository {
	return &gormTransactionRepository{db: db}
}

func (r *gormTransactionRepository) CreateTransactions(ctx context.Context, txs []*model.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(txs).Error
}

func (r *gormTransactionRepository) ListByWallet(ctx context.Context, address string, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_address = ?", address).
		Order("timestamp desc").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *gormTransactionRepository) ListAllByWallet(ctx context.Context, address string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_address = ?", address).
		Order("timestamp asc").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *gormTransactionRepository) ListLatest(ctx context.Context, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *gormTransactionRepository) DistinctWallets(ctx context.Context) ([]string, error) {
	var addresses []string
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Distinct("wallet_address").
		Pluck("wallet_address", &addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}
