// Package orchestrator is the server-authoritative draft loop. It consumes
// domain events off JetStream to arm pick deadlines, and runs a scheduler
// that sleeps until the soonest armed deadline and fires timeout handling
// through a worker pool. Deadlines live in the drafts table, so a restarted
// orchestrator picks up exactly where the last one stopped.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/gridironlabs/mockdraft/go/internal/draft"
)

// Clock is the time source. Production uses clockwork.NewRealClock; tests
// inject a fake.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
}

// DraftApp defines what the orchestrator needs from the draft application.
type DraftApp interface {
	SchedulePick(ctx context.Context, draftID uuid.UUID) error
	HandlePickTimeout(ctx context.Context, draftID uuid.UUID, awaitedOverall int) error
	FetchNextDeadline(ctx context.Context) (*draft.NextDeadline, error)
	FetchDuePicks(ctx context.Context, now time.Time, limit int32) ([]draft.DuePick, error)
}

type Orchestrator struct {
	app        DraftApp
	clock      Clock
	batchSize  int32
	wakeCh     chan struct{}
	instanceID string // short ID for logging

	nc       *nats.Conn
	js       jetstream.JetStream
	consumer jetstream.Consumer

	numWorkers int
	workCh     chan draft.DuePick

	// inFlight prevents two workers from racing on the same draft.
	inFlight   map[uuid.UUID]bool
	inFlightMu sync.Mutex
}

func NewOrchestrator(app DraftApp, clock Clock, batchSize int32) *Orchestrator {
	numWorkers := 10
	return &Orchestrator{
		app:        app,
		clock:      clock,
		batchSize:  batchSize,
		wakeCh:     make(chan struct{}, 1),
		instanceID: uuid.New().String()[:8],

		numWorkers: numWorkers,
		workCh:     make(chan draft.DuePick, numWorkers*2),
		inFlight:   make(map[uuid.UUID]bool),
	}
}

// Wake nudges the scheduler loop to re-read the soonest deadline. Called
// after any event that may have armed a sooner one.
func (o *Orchestrator) Wake() {
	select {
	case o.wakeCh <- struct{}{}:
	default:
	}
}

// RunScheduler loops forever, sleeping until the next armed deadline and
// dispatching due drafts to the worker pool.
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

		nd, err := o.app.FetchNextDeadline(ctx)
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
				log.Debug().Str("instance", o.instanceID).Msg("timer fired, fetching due drafts")
			case <-ctx.Done():
				log.Info().Str("instance", o.instanceID).Msg("shutdown during wait")
				return nil
			case <-o.wakeCh:
				log.Debug().Str("instance", o.instanceID).Msg("woken up early, re-reading deadlines")
				continue
			}
		}

		due, err := o.app.FetchDuePicks(ctx, o.clock.Now(), o.batchSize)
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

		for _, dp := range due {
			o.inFlightMu.Lock()
			if o.inFlight[dp.DraftID] {
				o.inFlightMu.Unlock()
				log.Debug().Str("draft_id", dp.DraftID.String()).Msg("skipping draft already in flight")
				continue
			}
			o.inFlight[dp.DraftID] = true
			o.inFlightMu.Unlock()

			select {
			case <-ctx.Done():
				o.inFlightMu.Lock()
				delete(o.inFlight, dp.DraftID)
				o.inFlightMu.Unlock()
				log.Info().Str("instance", o.instanceID).Msg("shutdown while queueing timeouts")
				return nil
			case o.workCh <- dp:
				log.Debug().
					Str("draft_id", dp.DraftID.String()).
					Int("overall", dp.Overall).
					Msg("queued timeout for worker")
			}
		}
	}
}

// worker processes due picks from the work channel.
func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case dp, ok := <-o.workCh:
			if !ok {
				return
			}

			if err := o.handleTimeout(ctx, dp); err != nil {
				log.Error().
					Err(err).
					Str("draft_id", dp.DraftID.String()).
					Str("instance", o.instanceID).
					Int("worker_id", workerID).
					Msg("worker timeout handling failed")
			}

			o.inFlightMu.Lock()
			delete(o.inFlight, dp.DraftID)
			o.inFlightMu.Unlock()
		}
	}
}
