package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/polymatrix/tracker/internal/analytics"
	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/model"
	"github.com/polymatrix/tracker/internal/repository"
)

// Default result limits, matching the dashboard's expectations.
const (
	DefaultRankingLimit = 50
	DefaultWalletLimit  = 50
	DefaultFeedLimit    = 20
)

// maxConcurrentRecomputes bounds the per-wallet fan-out during a full
// recompute. Wallets share no mutable state, so they recompute in parallel.
const maxConcurrentRecomputes = 8

type WalletService struct {
	txs     repository.TransactionRepository
	wallets repository.WalletRepository
	logger  *logrus.Logger
}

func NewWalletService(txs repository.TransactionRepository, wallets repository.WalletRepository, logger *logrus.Logger) *WalletService {
	return &WalletService{
		txs:     txs,
		wallets: wallets,
		logger:  logger,
	}
}

// Ranking returns the top wallets by ROI. The ranking is rebuilt from the
// cached metric snapshots on every call; it has no persisted identity.
func (s *WalletService) Ranking(ctx context.Context, limit int) ([]model.Wallet, error) {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	wallets, err := s.wallets.ListLatest(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.TopN(wallets, limit), nil
}

// Details returns the metrics for one wallet, recomputed from its full
// transaction history. The recomputed snapshot also refreshes the cached
// wallet row. An address with neither transactions nor a cached row is
// ErrNotFound.
func (s *WalletService) Details(ctx context.Context, address string) (*model.Wallet, error) {
	txs, err := s.txs.ListAllByWallet(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return s.wallets.Get(ctx, address)
	}

	wallet := analytics.Analyze(txs).WalletSnapshot(address, time.Now().UTC())
	if err := s.wallets.Save(ctx, &wallet); err != nil {
		// The cache refresh failing must not hide the computed metrics.
		s.logger.WithField("address", address).Errorf("Failed to cache wallet snapshot: %v", err)
	}
	return &wallet, nil
}

// History returns the newest transactions for one wallet in display order.
func (s *WalletService) History(ctx context.Context, address string, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = DefaultWalletLimit
	}
	return s.txs.ListByWallet(ctx, address, limit)
}

// Feed returns the newest transactions across all wallets.
func (s *WalletService) Feed(ctx context.Context, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return s.txs.ListLatest(ctx, limit)
}

// Recompute rebuilds and caches the metrics snapshot for one address.
func (s *WalletService) Recompute(ctx context.Context, address string) (*model.Wallet, error) {
	txs, err := s.txs.ListAllByWallet(ctx, address)
	if err != nil {
		return nil, err
	}
	wallet := analytics.Analyze(txs).WalletSnapshot(address, time.Now().UTC())
	if err := s.wallets.Save(ctx, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// RecomputeAll rebuilds metrics for every address found in the ledger.
// Wallets are processed concurrently; the first store error stops the run.
func (s *WalletService) RecomputeAll(ctx context.Context) error {
	addresses, err := s.txs.DistinctWallets(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRecomputes)
	for _, address := range addresses {
		g.Go(func() error {
			_, err := s.Recompute(ctx, address)
			if errors.Is(err, apperr.ErrNotFound) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
