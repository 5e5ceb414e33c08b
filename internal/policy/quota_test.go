package policy_test

import (
	"testing"

	"golang-chat-blast/internal/policy"
)

func TestQuotaCeiling(t *testing.T) {
	t.Parallel()

	q := policy.NewQuota(100)

	for i := 0; i < 100; i++ {
		if !q.TryAdmit() {
			t.Fatalf("attempt %d refused below the ceiling", i+1)
		}
		q.Record()
	}

	// The 101st admission and every one after it must be refused.
	for i := 0; i < 5; i++ {
		if q.TryAdmit() {
			t.Fatalf("admission granted after ceiling (call %d)", i+1)
		}
	}

	if got := q.Sent(); got != 100 {
		t.Fatalf("Sent() = %d, want 100", got)
	}
}

func TestQuotaTryAdmitHasNoSideEffect(t *testing.T) {
	t.Parallel()

	q := policy.NewQuota(2)
	for i := 0; i < 10; i++ {
		q.TryAdmit()
	}
	if got := q.Sent(); got != 0 {
		t.Fatalf("TryAdmit incremented the counter: Sent() = %d", got)
	}
}

func TestQuotaDefaultLimit(t *testing.T) {
	t.Parallel()

	q := policy.NewQuota(0)
	for i := 0; i < policy.DefaultDailyLimit; i++ {
		q.Record()
	}
	if q.TryAdmit() {
		t.Fatal("default limit not enforced at 100")
	}
}
