package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/sqlutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Worker polls the outbox table and relays unsent events to the publisher.
// Claim, publish, and mark-sent share one transaction so an event is never
// marked sent without a successful publish.
type Worker struct {
	pool      *pgxpool.Pool
	repo      *PgxRepository
	publisher EventPublisher
	config    Config

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(pool *pgxpool.Pool, repo *PgxRepository, publisher EventPublisher, cfg Config) *Worker {
	return &Worker{
		pool:      pool,
		repo:      repo,
		publisher: publisher,
		config:    cfg,
		stopChan:  make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int32("batch_size", w.config.BatchSize).
		Msg("outbox worker started")
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()
	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processOutbox(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	err := sqlutil.Run(ctx, w.pool, func(tx pgx.Tx) error {
		events, err := w.repo.FetchUnsentTx(ctx, tx, w.config.BatchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		log.Debug().Int("count", len(events)).Msg("processing outbox events")

		var successfulIDs []uuid.UUID
		for _, event := range events {
			if err := w.publishWithRetry(ctx, event); err != nil {
				log.Error().
					Err(err).
					Str("event_id", event.ID.String()).
					Str("event_type", event.EventType).
					Msg("failed to publish event")
				continue
			}
			successfulIDs = append(successfulIDs, event.ID)
		}

		if len(successfulIDs) > 0 {
			if err := w.repo.MarkSentTx(ctx, tx, successfulIDs); err != nil {
				return err
			}
			log.Info().
				Int("total", len(events)).
				Int("successful", len(successfulIDs)).
				Msg("processed outbox events")
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("outbox batch failed")
	}
}

func (w *Worker) publishWithRetry(ctx context.Context, event OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Warn().
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Err(err).
				Msg("failed to publish event, retrying")
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
