package policy

import (
	"math/rand"
	"time"
)

// pacing tiers: the more we have sent in the current window, the longer the
// randomized pause before the next send. Escalating jittered delays keep the
// cadence within what a human operator could plausibly produce.
type tier struct {
	below int // counts strictly below this fall into the tier
	min   time.Duration
	span  time.Duration
}

var tiers = []tier{
	{below: 10, min: 15 * time.Second, span: 15 * time.Second},
	{below: 30, min: 30 * time.Second, span: 30 * time.Second},
	{below: 50, min: 60 * time.Second, span: 60 * time.Second},
}

// The top tier has no upper count bound: 120s + up to 180s of jitter.
var topTier = tier{min: 120 * time.Second, span: 180 * time.Second}

// Pacer computes inter-send delays. The zero value is not usable; construct
// with NewPacer so the random source can be pinned in tests.
type Pacer struct {
	randFloat func() float64
}

// NewPacer returns a Pacer drawing jitter from the package-level PRNG.
func NewPacer() *Pacer {
	return &Pacer{randFloat: rand.Float64}
}

// NewPacerWithRand pins the jitter source, for deterministic tests.
func NewPacerWithRand(randFloat func() float64) *Pacer {
	return &Pacer{randFloat: randFloat}
}

// Delay maps the post-increment sent count to the pause before the next send.
func (p *Pacer) Delay(sentSoFar int) time.Duration {
	t := topTier
	for _, candidate := range tiers {
		if sentSoFar < candidate.below {
			t = candidate
			break
		}
	}
	return t.min + time.Duration(p.randFloat()*float64(t.span))
}
