package history_test

import (
	"context"
	"errors"
	"testing"

	"golang-chat-blast/internal/adapters/history"
	"golang-chat-blast/internal/domain"
)

type spyRecorder struct {
	calls int
	err   error
}

func (s *spyRecorder) Record(ctx context.Context, rec domain.BatchRecord) error {
	s.calls++
	return s.err
}

func TestMultiRecordsEveryBackend(t *testing.T) {
	t.Parallel()

	a := &spyRecorder{}
	b := &spyRecorder{err: errors.New("broker down")}
	c := &spyRecorder{}

	m := history.NewMulti(a, nil, b, c)

	err := m.Record(context.Background(), domain.BatchRecord{})
	if err == nil {
		t.Fatal("expected the broker error to surface")
	}
	if a.calls != 1 || b.calls != 1 || c.calls != 1 {
		t.Fatalf("backends called %d/%d/%d times, want 1 each", a.calls, b.calls, c.calls)
	}
}
