package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Orchestrator watches pick deadlines across active drafts and fires the
// auto-pick strategy when a clock expires. One scheduler loop sleeps until
// the soonest deadline; expired drafts are fanned out to a worker pool with
// in-flight dedup so a slow auto-pick never doubles up.
type Orchestrator struct {
	repo       Repository
	strat      AutoPickStrategy
	batchSize  int32
	clock      clockwork.Clock
	wakeCh     chan struct{}
	instanceID string

	numWorkers int
	workCh     chan uuid.UUID

	inFlight   map[uuid.UUID]bool
	inFlightMu sync.Mutex
}

// NewOrchestrator creates a new draft orchestrator with worker pool
func NewOrchestrator(repo Repository, strat AutoPickStrategy, batchSize int32, clock clockwork.Clock) *Orchestrator {
	numWorkers := 10
	return &Orchestrator{
		repo:       repo,
		strat:      strat,
		batchSize:  batchSize,
		clock:      clock,
		wakeCh:     make(chan struct{}, 1),
		instanceID: uuid.New().String()[:8],

		numWorkers: numWorkers,
		workCh:     make(chan uuid.UUID, numWorkers*2),
		inFlight:   make(map[uuid.UUID]bool),
	}
}

// Wake nudges the scheduler to re-read the next deadline, used after a new
// pick arms a sooner clock.
func (o *Orchestrator) Wake() {
	select {
	case o.wakeCh <- struct{}{}:
	default:
	}
}

// RunScheduler loops forever, sleeping until the next deadline and firing
// expired pick clocks. Returns when ctx is cancelled.
func (o *Orchestrator) RunScheduler(ctx context.Context) error {
	log.Info().Str("instance", o.instanceID).Int("workers", o.numWorkers).Msg("scheduler started")

	var wg sync.WaitGroup
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	for i := 0; i < o.numWorkers; i++ {
		wg.Add(1)
		go o.worker(workerCtx, &wg, i)
	}

	defer func() {
		log.Info().Str("instance", o.instanceID).Msg("shutting down workers")
		cancelWorkers()
		close(o.workCh)
		wg.Wait()
		log.Info().Str("instance", o.instanceID).Msg("all workers shut down")
	}()

	timer := o.clock.NewTimer(0)
	defer timer.Stop()

	const idlePollDuration = 5 * time.Second
	retryCount := 0
	const maxRetries = 3

	for {
		select {
		case <-o.wakeCh:
			log.Debug().Str("instance", o.instanceID).Msg("drained wake channel")
		default:
		}

		nd, err := o.repo.FetchNextDeadline(ctx)
		if err != nil {
			retryCount++
			if retryCount <= maxRetries {
				log.Error().
					Err(err).
					Int("retry", retryCount).
					Str("instance", o.instanceID).
					Msg("error fetching next deadline, retrying")
				timer.Reset(time.Second * time.Duration(retryCount))
				select {
				case <-timer.Chan():
					continue
				case <-ctx.Done():
					return nil
				}
			}
			log.Error().Err(err).Str("instance", o.instanceID).Msg("error fetching next deadline after retries")
			return err
		}
		retryCount = 0

		if nd == nil || nd.Deadline == nil {
			timer.Reset(idlePollDuration)
			select {
			case <-timer.Chan():
				continue
			case <-ctx.Done():
				log.Info().Str("instance", o.instanceID).Msg("shutdown during idle")
				return nil
			case <-o.wakeCh:
				log.Debug().Str("instance", o.instanceID).Msg("woken up from idle")
				continue
			}
		}

		wait := nd.Deadline.Sub(o.clock.Now())
		if wait > 0 {
			timer.Reset(wait)
			select {
			case <-timer.Chan():
				log.Info().Str("instance", o.instanceID).Msg("timer fired, fetching due drafts")
			case <-ctx.Done():
				log.Info().Str("instance", o.instanceID).Msg("shutdown during wait")
				return nil
			case <-o.wakeCh:
				log.Debug().Str("instance", o.instanceID).Msg("woken up early, new sooner deadline")
				continue
			}
		}

		due, err := o.repo.FetchDraftsDueForPick(ctx, o.batchSize)
		if err != nil {
			log.Error().Err(err).Str("instance", o.instanceID).Msg("error fetching due drafts")
			timer.Reset(time.Second)
			select {
			case <-timer.Chan():
				continue
			case <-ctx.Done():
				return nil
			}
		}

		if len(due) == 0 {
			continue
		}

		log.Info().
			Int("count_due", len(due)).
			Int32("batch_size", o.batchSize).
			Str("instance", o.instanceID).
			Msg("processing due drafts")

		for _, draftID := range due {
			o.inFlightMu.Lock()
			if o.inFlight[draftID] {
				log.Debug().Str("draft_id", draftID.String()).Str("instance", o.instanceID).Msg("skipping draft already in flight")
				o.inFlightMu.Unlock()
				continue
			}
			o.inFlight[draftID] = true
			o.inFlightMu.Unlock()

			select {
			case <-ctx.Done():
				o.inFlightMu.Lock()
				delete(o.inFlight, draftID)
				o.inFlightMu.Unlock()
				log.Info().Str("instance", o.instanceID).Msg("shutdown while queueing timeouts")
				return nil
			case o.workCh <- draftID:
				log.Debug().Str("draft_id", draftID.String()).Str("instance", o.instanceID).Msg("queued timeout for worker")
			}
		}
	}
}

// worker processes expired pick clocks from the work channel
func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Info().
		Str("instance", o.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case draftID, ok := <-o.workCh:
			if !ok {
				return
			}

			if err := o.handleExpiry(ctx, draftID); err != nil {
				log.Error().
					Err(err).
					Str("draft_id", draftID.String()).
					Str("instance", o.instanceID).
					Int("worker_id", workerID).
					Msg("worker expiry handling failed")
			}

			o.inFlightMu.Lock()
			delete(o.inFlight, draftID)
			o.inFlightMu.Unlock()
		}
	}
}

func (o *Orchestrator) handleExpiry(ctx context.Context, draftID uuid.UUID) error {
	log.Info().Str("draft_id", draftID.String()).Msg("pick clock expired")

	draft, err := o.strat.PickExpired(ctx, draftID)
	if err != nil {
		// A stale expiry that lost the conditional pick update to a racing
		// participant is not a failure.
		if errors.Is(err, models.ErrInvalidState) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	if draft != nil {
		log.Info().
			Str("draft_id", draftID.String()).
			Str("status", string(draft.Status)).
			Int("current_pick", draft.CurrentPick).
			Msg("expiry handled")
	}

	// The auto-pick armed a new deadline; make sure the scheduler sees it.
	o.Wake()
	return nil
}
