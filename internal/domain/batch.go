package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the per-recipient outcome of a dispatch attempt.
type Status string

const (
	StatusSent             Status = "sent"              // Delivered to the platform transport
	StatusInvalidRecipient Status = "invalid_recipient" // Identifier did not resolve to a platform address
	StatusQuotaExceeded    Status = "quota_exceeded"    // Daily send ceiling reached before this recipient
	StatusTransportFailed  Status = "transport_failed"  // Address resolved but delivery failed
)

// BatchRequest is a bulk-send order: one template, many recipients.
type BatchRequest struct {
	Recipients []string
	Template   string
	Context    map[string]string
	Label      string
}

// Validate rejects requests that must not cause any side effect.
func (r BatchRequest) Validate() error {
	if len(r.Recipients) == 0 || r.Template == "" {
		return ErrInvalidPayload
	}
	return nil
}

// SendResult records the outcome for a single recipient, keyed by the
// raw identifier exactly as it arrived in the request.
type SendResult struct {
	Recipient string `json:"recipient"`
	Status    Status `json:"status"`
}

// BatchRecord is the write-once history entry for one processed batch.
type BatchRecord struct {
	ID             uuid.UUID         `json:"id"`
	Label          string            `json:"label"`
	SenderIdentity string            `json:"sender"`
	Template       string            `json:"template"`
	Context        map[string]string `json:"context,omitempty"`
	Results        []SendResult      `json:"results"`
	Total          int               `json:"total"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewBatchRecord assembles a record for a finished batch.
func NewBatchRecord(req BatchRequest, identity string, results []SendResult) BatchRecord {
	return BatchRecord{
		ID:             uuid.New(),
		Label:          req.Label,
		SenderIdentity: identity,
		Template:       req.Template,
		Context:        req.Context,
		Results:        results,
		Total:          len(results),
		CreatedAt:      time.Now().UTC(),
	}
}

// Domain errors
var (
	ErrSessionNotReady  = errors.New("session not ready")
	ErrInvalidPayload   = errors.New("invalid batch payload")
	ErrInvalidRecipient = errors.New("recipient does not resolve to a platform address")
)
