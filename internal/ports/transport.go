package ports

import "context"

// Address is a resolved, platform-native recipient address.
type Address string

// EventKind identifies an asynchronous lifecycle signal from the transport.
type EventKind string

const (
	EventPairingCode  EventKind = "pairing_code" // A fresh pairing challenge was issued
	EventReady        EventKind = "ready"        // The session is authenticated and usable
	EventDisconnected EventKind = "disconnected" // Authentication was lost
)

// Event is one lifecycle signal. Code is set only for EventPairingCode.
type Event struct {
	Kind EventKind
	Code string
}

// PlatformTransport abstracts the messaging platform. The real wire protocol
// stays behind this interface; the service only needs address resolution,
// presence signalling, text delivery and the lifecycle event stream.
type PlatformTransport interface {
	// ResolveAddress checks whether a normalized identifier maps to a real
	// platform address. ok=false means the recipient does not exist; err is
	// reserved for transport-level failures.
	ResolveAddress(ctx context.Context, normalized string) (addr Address, ok bool, err error)

	// SetComposing toggles the "typing" indicator for the given address.
	SetComposing(ctx context.Context, addr Address, composing bool) error

	// SendText delivers a rendered message to a resolved address.
	SendText(ctx context.Context, addr Address, text string) error

	// Lifecycle streams session events; each is passed to the handler.
	// Blocks until ctx is cancelled or a fatal error occurs.
	Lifecycle(ctx context.Context, handler func(Event)) error
}
