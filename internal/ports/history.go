package ports

import (
	"context"

	"golang-chat-blast/internal/domain"
)

// HistoryRecorder persists finished batch records. Recording is best effort:
// a failure is logged by the caller and never surfaced to the API client.
type HistoryRecorder interface {
	Record(ctx context.Context, rec domain.BatchRecord) error
}

// SentCache remembers which recipients were recently messaged, so operators
// can answer "did we already blast this number today" without reading history.
type SentCache interface {
	MarkSent(ctx context.Context, recipient string) error
}
