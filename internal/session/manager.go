package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	"golang-chat-blast/internal/domain"
	"golang-chat-blast/internal/ports"

	"github.com/mdp/qrterminal/v3"
	qrcode "github.com/skip2/go-qrcode"
)

// State is the session lifecycle position.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAwaitingPairing State = "awaiting_pairing"
	StateReady           State = "ready"
)

const pairingImageSize = 320 // px, square

// Manager owns the authenticated platform session. It is the sole writer of
// the session state: Run consumes the transport's lifecycle events and every
// other method only reads. At most one pairing artifact is current at a time;
// it is replaced on each pairing event and cleared once the session is ready.
type Manager struct {
	transport ports.PlatformTransport
	identity  string
	log       *slog.Logger

	sleep     func(time.Duration)
	randFloat func() float64

	mu          sync.RWMutex
	state       State
	pairingCode string
	pairingPNG  []byte
}

// NewManager wires a Manager for the given account identity.
func NewManager(transport ports.PlatformTransport, identity string, log *slog.Logger) *Manager {
	return &Manager{
		transport: transport,
		identity:  identity,
		log:       log,
		state:     StateUnauthenticated,
		sleep:     time.Sleep,
		randFloat: rand.Float64,
	}
}

// WithTimers pins the hold/sleep primitives so tests run without real waits.
func (m *Manager) WithTimers(sleep func(time.Duration), randFloat func() float64) *Manager {
	m.sleep = sleep
	m.randFloat = randFloat
	return m
}

// Run subscribes to the transport's lifecycle stream and applies each event.
// Blocks until ctx is cancelled or the stream fails.
func (m *Manager) Run(ctx context.Context) error {
	return m.transport.Lifecycle(ctx, m.apply)
}

func (m *Manager) apply(ev ports.Event) {
	switch ev.Kind {
	case ports.EventPairingCode:
		png, err := qrcode.Encode(ev.Code, qrcode.Medium, pairingImageSize)
		if err != nil {
			m.log.Error("encode pairing image", "err", err)
			png = nil
		}

		m.mu.Lock()
		m.state = StateAwaitingPairing
		m.pairingCode = ev.Code
		m.pairingPNG = png
		m.mu.Unlock()

		m.log.Info("pairing code issued; scan it with the platform app", "identity", m.identity)
		qrterminal.GenerateHalfBlock(ev.Code, qrterminal.L, os.Stdout)

	case ports.EventReady:
		m.mu.Lock()
		m.state = StateReady
		m.pairingCode = ""
		m.pairingPNG = nil
		m.mu.Unlock()

		m.log.Info("session ready", "identity", m.identity)

	case ports.EventDisconnected:
		m.mu.Lock()
		m.state = StateAwaitingPairing
		m.pairingCode = ""
		m.pairingPNG = nil
		m.mu.Unlock()

		m.log.Warn("session disconnected; waiting for new pairing", "identity", m.identity)
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Ready reports whether sends are possible right now.
func (m *Manager) Ready() bool {
	return m.State() == StateReady
}

// Identity names the logical account this session authenticates.
func (m *Manager) Identity() string {
	return m.identity
}

// PairingImage returns the PNG rendering of the current pairing artifact.
func (m *Manager) PairingImage() ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.pairingPNG) == 0 {
		return nil, false
	}
	return m.pairingPNG, true
}

// SendText delivers one rendered message to a normalized identifier.
//
// The identifier is resolved first: an unresolvable identifier fails fast with
// domain.ErrInvalidRecipient before any delivery attempt, which is what keeps
// "bad number" distinguishable from "transport error" in the result taxonomy.
// A resolved address then goes through presence simulation (composing on,
// 2.0-5.0s hold, composing off, 0.5-1.5s hold) before the actual transmit.
func (m *Manager) SendText(ctx context.Context, normalized, text string) error {
	addr, ok, err := m.transport.ResolveAddress(ctx, normalized)
	if err != nil {
		return fmt.Errorf("resolve address: %w", err)
	}
	if !ok {
		return domain.ErrInvalidRecipient
	}

	// Presence toggles are best effort; a failed indicator must not cost us
	// the delivery itself.
	if err := m.transport.SetComposing(ctx, addr, true); err != nil {
		m.log.Warn("set composing failed", "err", err)
	}
	m.sleep(2*time.Second + time.Duration(m.randFloat()*float64(3*time.Second)))

	if err := m.transport.SetComposing(ctx, addr, false); err != nil {
		m.log.Warn("clear composing failed", "err", err)
	}
	m.sleep(500*time.Millisecond + time.Duration(m.randFloat()*float64(time.Second)))

	if err := m.transport.SendText(ctx, addr, text); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}
