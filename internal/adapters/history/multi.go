package history

import (
	"context"
	"errors"

	"golang-chat-blast/internal/domain"
	"golang-chat-blast/internal/ports"
)

// Multi fans one batch record out to several backends. Every backend gets a
// chance to record even when an earlier one fails; the joined error carries
// whatever went wrong so the caller can log it.
type Multi struct {
	recorders []ports.HistoryRecorder
}

// NewMulti builds a fan-out recorder; nil entries are skipped.
func NewMulti(recorders ...ports.HistoryRecorder) *Multi {
	kept := make([]ports.HistoryRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return &Multi{recorders: kept}
}

// Record delivers rec to every backend.
func (m *Multi) Record(ctx context.Context, rec domain.BatchRecord) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Record(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
