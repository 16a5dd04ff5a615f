// Package ingester consumes transaction events from Kafka, persists them,
// and drives alert evaluation and wallet metric recomputation.
package ingester

import (
	"context"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/polymatrix/tracker/configs"
	"github.com/polymatrix/tracker/internal/alerts"
	"github.com/polymatrix/tracker/internal/model"
	"github.com/polymatrix/tracker/internal/repository"
)

const pollTimeout = 500 * time.Millisecond

// AlertPublisher delivers fired-alert events to the outbound stream.
type AlertPublisher interface {
	PublishAlert(alert *model.FiredAlert) error
}

// Broadcaster pushes ingested transactions and fired alerts to live feed
// subscribers.
type Broadcaster interface {
	BroadcastTransaction(tx *model.Transaction)
	BroadcastAlert(alert *model.FiredAlert)
}

// WalletRecomputer rebuilds cached wallet metrics after new transactions.
type WalletRecomputer interface {
	Recompute(ctx context.Context, address string) (*model.Wallet, error)
}

// Ingester implements at-least-once delivery: offsets are committed only
// after the batch is in the store. Alert evaluation runs after commit, in
// arrival order, so every rule sees each qualifying transaction exactly once
// per delivery.
type Ingester struct {
	consumer  *kafka.Consumer
	txs       repository.TransactionRepository
	rules     repository.AlertRepository
	recompute WalletRecomputer
	publisher AlertPublisher
	feed      Broadcaster
	logger    *logrus.Logger
	cfg       configs.IngesterConfig
}

// New wires an Ingester from its dependencies. publisher and feed may be nil
// when alert delivery or the live feed is not running.
func New(
	consumer *kafka.Consumer,
	txs repository.TransactionRepository,
	rules repository.AlertRepository,
	recompute WalletRecomputer,
	publisher AlertPublisher,
	feed Broadcaster,
	logger *logrus.Logger,
	cfg configs.IngesterConfig,
) *Ingester {
	return &Ingester{
		consumer:  consumer,
		txs:       txs,
		rules:     rules,
		recompute: recompute,
		publisher: publisher,
		feed:      feed,
		logger:    logger,
		cfg:       cfg,
	}
}

// Start runs the ingestion loop until the context is cancelled. Remaining
// buffered transactions are flushed on shutdown.
func (ig *Ingester) Start(ctx context.Context) error {
	ig.logger.WithField("batch_size", ig.cfg.BatchSize).Info("Starting transaction ingester")

	batch := make([]*model.Transaction, 0, ig.cfg.BatchSize)
	ticker := time.NewTicker(ig.cfg.BatchTimeout)
	defer ticker.Stop()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		// Never drop data: keep retrying until the store accepts the batch.
		for {
			if err := ig.txs.CreateTransactions(ctx, batch); err != nil {
				ig.logger.Errorf("Batch insert failed (retrying in 2s): %v", err)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(2 * time.Second):
					continue
				}
			}
			break
		}

		if _, err := ig.consumer.Commit(); err != nil {
			ig.logger.Warnf("Failed to commit offsets: %v", err)
		}

		ig.postProcess(ctx, batch)

		batch = batch[:0]
		ticker.Reset(ig.cfg.BatchTimeout)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return flush()

		case <-ticker.C:
			if err := flush(); err != nil {
				return err
			}

		default:
			msg, err := ig.consumer.ReadMessage(pollTimeout)
			if err != nil {
				if kerr, ok := err.(kafka.Error); ok && kerr.IsTimeout() {
					continue
				}
				ig.logger.Errorf("Kafka read error: %v", err)
				time.Sleep(time.Second)
				continue
			}

			tx, err := parseEvent(msg.Value)
			if err != nil {
				ig.logger.Warnf("Rejected transaction event: %v", err)
				continue
			}

			batch = append(batch, tx)
			if len(batch) >= ig.cfg.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
}

// postProcess evaluates alert rules against the flushed transactions in
// arrival order, delivers fired events, and recomputes metrics for every
// affected wallet. Failures here are logged, not fatal: the transactions are
// already durable and the next batch self-heals the caches.
func (ig *Ingester) postProcess(ctx context.Context, batch []*model.Transaction) {
	activeRules, err := ig.rules.ListActive(ctx)
	if err != nil {
		ig.logger.Errorf("Failed to load active alert rules: %v", err)
		activeRules = nil
	}

	affected := make(map[string]struct{})
	now := time.Now().UTC()
	for _, tx := range batch {
		affected[tx.WalletAddress] = struct{}{}

		if ig.feed != nil {
			ig.feed.BroadcastTransaction(tx)
		}

		for _, fired := range alerts.EvaluateAll(activeRules, tx, now) {
			ig.logger.WithFields(logrus.Fields{
				"alert_id": fired.AlertID,
				"tx_id":    fired.TransactionID,
			}).Info("Alert fired")

			if ig.publisher != nil {
				if err := ig.publisher.PublishAlert(&fired); err != nil {
					ig.logger.Errorf("Failed to publish alert %s: %v", fired.AlertID, err)
				}
			}
			if ig.feed != nil {
				ig.feed.BroadcastAlert(&fired)
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for address := range affected {
		g.Go(func() error {
			if _, err := ig.recompute.Recompute(gctx, address); err != nil {
				ig.logger.WithField("address", address).Errorf("Wallet recompute failed: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
