package analytics

import (
	"context"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
	"github.com/dwiprasetya/laundrypos-backend/pkg/metrics"
)

const (
	consumerName = "analytics"
	dedupeTTL    = 24 * time.Hour

	workerJobName = "analytics_consume"
)

// Handler processes one decoded order event.
type Handler interface {
	Handle(ctx context.Context, envelope Envelope) error
}

type dedupeStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Worker consumes the orders subscription and appends facts to the
// warehouse. Pub/Sub delivers at least once, so a Redis marker keyed by
// event id filters redeliveries.
type Worker struct {
	subscription *gcppubsub.Subscriber
	handler      Handler
	dedupe       dedupeStore
	logg         *logger.Logger
	jobs         *metrics.JobMetrics
}

func NewWorker(subscription *gcppubsub.Subscriber, handler Handler, dedupe dedupeStore, logg *logger.Logger, jobs *metrics.JobMetrics) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("orders subscription is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if dedupe == nil {
		return nil, errors.New("dedupe store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{
		subscription: subscription,
		handler:      handler,
		dedupe:       dedupe,
		logg:         logg,
		jobs:         jobs,
	}, nil
}

type processResult struct {
	nack bool
}

// Run blocks consuming messages until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (w *Worker) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	started := time.Now()
	logCtx := w.logg.WithField(ctx, "message_id", msg.ID)

	envelope, err := DecodeMessage(msg)
	if err != nil {
		// malformed messages never become valid; ack so they do not loop
		w.logg.Warn(w.logg.WithField(logCtx, "error", err.Error()), "dropping undecodable order event")
		return processResult{}
	}
	logCtx = w.logg.WithFields(logCtx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": envelope.EventType,
		"order_id":   envelope.AggregateID,
	})

	dedupeKey := w.dedupe.IdempotencyKey(consumerName, envelope.EventID)
	fresh, err := w.dedupe.SetNX(logCtx, dedupeKey, 1, dedupeTTL)
	if err != nil {
		w.logg.Error(logCtx, "dedupe check failed", err)
		w.jobs.IncFailure(workerJobName)
		return processResult{nack: true}
	}
	if !fresh {
		w.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	if err := w.handler.Handle(logCtx, *envelope); err != nil {
		w.logg.Error(logCtx, "order fact write failed", err)
		// release the marker so the redelivery gets another attempt
		_ = w.dedupe.Del(logCtx, dedupeKey)
		w.jobs.IncFailure(workerJobName)
		return processResult{nack: true}
	}

	w.jobs.ObserveDuration(workerJobName, time.Since(started))
	w.jobs.IncSuccess(workerJobName)
	w.logg.Info(logCtx, "order fact recorded")
	return processResult{}
}
