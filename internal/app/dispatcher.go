package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang-chat-blast/internal/domain"
	"golang-chat-blast/internal/policy"
	"golang-chat-blast/internal/ports"
	"golang-chat-blast/internal/session"
)

// Dispatcher drives a batch through the full outbound pipeline:
// quota check, identifier normalization, template rendering, paced delivery
// through the session, and history recording.
type Dispatcher struct {
	session *session.Manager
	quota   *policy.Quota
	pacer   *policy.Pacer
	history ports.HistoryRecorder
	cache   ports.SentCache // optional
	log     *slog.Logger

	sleep func(time.Duration)

	// run serializes whole batches: the pacing policy and the quota counter
	// assume exactly one in-flight send, so concurrent RunBatch calls queue
	// up behind each other instead of interleaving.
	run sync.Mutex
}

// NewDispatcher wires the pipeline with its collaborators. cache may be nil.
func NewDispatcher(
	sess *session.Manager,
	quota *policy.Quota,
	pacer *policy.Pacer,
	history ports.HistoryRecorder,
	cache ports.SentCache,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		session: sess,
		quota:   quota,
		pacer:   pacer,
		history: history,
		cache:   cache,
		log:     log,
		sleep:   time.Sleep,
	}
}

// WithSleeper pins the inter-send pause primitive, for tests.
func (d *Dispatcher) WithSleeper(sleep func(time.Duration)) *Dispatcher {
	d.sleep = sleep
	return d
}

// Sent exposes the cumulative attempted-send count for the health endpoint.
func (d *Dispatcher) Sent() int {
	return d.quota.Sent()
}

// RunBatch processes every recipient of req in order and returns the batch
// record. The session must be ready at call time or the whole batch is
// rejected with domain.ErrSessionNotReady and no side effect. Failures local
// to one recipient are absorbed into that recipient's status; the loop never
// halts early.
func (d *Dispatcher) RunBatch(ctx context.Context, req domain.BatchRequest) (domain.BatchRecord, error) {
	// Readiness wins over payload errors: a caller hitting an initializing
	// session gets the not-ready outcome even for a payload that would be
	// rejected anyway.
	if !d.session.Ready() {
		return domain.BatchRecord{}, domain.ErrSessionNotReady
	}

	if err := req.Validate(); err != nil {
		return domain.BatchRecord{}, err
	}

	d.run.Lock()
	defer d.run.Unlock()

	// Readiness is re-observed behind the run lock, never cached: the session
	// can flip at any moment relative to pipeline activity.
	if !d.session.Ready() {
		return domain.BatchRecord{}, domain.ErrSessionNotReady
	}

	results := make([]domain.SendResult, 0, len(req.Recipients))
	for _, raw := range req.Recipients {
		// A refused admission consumes nothing: no transport call, no pacing
		// delay, no counter increment.
		if !d.quota.TryAdmit() {
			results = append(results, domain.SendResult{Recipient: raw, Status: domain.StatusQuotaExceeded})
			continue
		}

		status := d.sendOne(ctx, raw, req)
		results = append(results, domain.SendResult{Recipient: raw, Status: status})

		// The attempt is counted whether it succeeded or not, and pacing is
		// evaluated on the post-increment count. The pause applies after every
		// attempt, the last one included, matching the upstream behavior.
		sent := d.quota.Record()
		d.sleep(d.pacer.Delay(sent))
	}

	rec := domain.NewBatchRecord(req, d.session.Identity(), results)
	if err := d.history.Record(ctx, rec); err != nil {
		// History is best effort; the batch outcome is already final.
		d.log.Warn("record batch history", "batch_id", rec.ID, "err", err)
	}

	d.log.Info("batch dispatched",
		"batch_id", rec.ID,
		"label", rec.Label,
		"recipients", len(results),
		"sent_today", d.quota.Sent(),
	)
	return rec, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, raw string, req domain.BatchRequest) domain.Status {
	normalized := domain.NormalizeRecipient(raw)
	text := domain.RenderTemplate(req.Template, req.Context)

	err := d.session.SendText(ctx, normalized, text)
	switch {
	case err == nil:
		d.markSent(ctx, normalized)
		return domain.StatusSent
	case errors.Is(err, domain.ErrInvalidRecipient):
		d.log.Info("recipient did not resolve", "recipient", raw)
		return domain.StatusInvalidRecipient
	default:
		d.log.Error("transport send failed", "recipient", raw, "err", err)
		return domain.StatusTransportFailed
	}
}

func (d *Dispatcher) markSent(ctx context.Context, normalized string) {
	if d.cache == nil {
		return
	}
	if err := d.cache.MarkSent(ctx, normalized); err != nil {
		d.log.Warn("mark sent in cache", "recipient", normalized, "err", err)
	}
}
