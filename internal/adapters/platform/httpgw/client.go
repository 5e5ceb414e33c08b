package httpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang-chat-blast/internal/ports"
)

const statusPollInterval = 2 * time.Second

// Client implements ports.PlatformTransport against a platform gateway
// sidecar speaking plain HTTP. The gateway owns the real wire protocol; this
// client only resolves addresses, toggles presence, posts messages and polls
// session status.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given gateway base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type resolveRequest struct {
	Recipient string `json:"recipient"`
}

type resolveResponse struct {
	Address string `json:"address"`
}

// ResolveAddress asks the gateway whether the identifier exists on the
// platform. A 404 means "no such recipient", not a transport failure.
func (c *Client) ResolveAddress(ctx context.Context, normalized string) (ports.Address, bool, error) {
	var out resolveResponse
	status, err := c.post(ctx, "/resolve", resolveRequest{Recipient: normalized}, &out)
	if err != nil {
		return "", false, fmt.Errorf("resolve: %w", err)
	}
	if status == http.StatusNotFound {
		return "", false, nil
	}
	if status != http.StatusOK {
		return "", false, fmt.Errorf("gateway resolve returned %d", status)
	}
	return ports.Address(out.Address), true, nil
}

type presenceRequest struct {
	Address   string `json:"address"`
	Composing bool   `json:"composing"`
}

// SetComposing toggles the typing indicator for the address.
func (c *Client) SetComposing(ctx context.Context, addr ports.Address, composing bool) error {
	status, err := c.post(ctx, "/presence", presenceRequest{Address: string(addr), Composing: composing}, nil)
	if err != nil {
		return fmt.Errorf("presence: %w", err)
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("gateway presence returned %d", status)
	}
	return nil
}

type sendTextRequest struct {
	Address string `json:"address"`
	Text    string `json:"text"`
}

// SendText posts the message to the gateway's /send endpoint.
func (c *Client) SendText(ctx context.Context, addr ports.Address, text string) error {
	status, err := c.post(ctx, "/send", sendTextRequest{Address: string(addr), Text: text}, nil)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if status != http.StatusOK && status != http.StatusAccepted {
		return fmt.Errorf("gateway send returned %d", status)
	}
	return nil
}

type statusResponse struct {
	State       string `json:"state"` // "pairing" | "ready" | "disconnected"
	PairingCode string `json:"pairing_code,omitempty"`
}

// Lifecycle polls the gateway's /status endpoint and emits an event whenever
// the session state or the pairing code changes. Blocks until ctx is
// cancelled. Poll errors are transient; the next tick retries.
func (c *Client) Lifecycle(ctx context.Context, handler func(ports.Event)) error {
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	var last statusResponse
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			cur, err := c.status(ctx)
			if err != nil {
				continue
			}
			if cur == last {
				continue
			}

			switch cur.State {
			case "pairing":
				if cur.PairingCode != "" && cur.PairingCode != last.PairingCode {
					handler(ports.Event{Kind: ports.EventPairingCode, Code: cur.PairingCode})
				}
			case "ready":
				handler(ports.Event{Kind: ports.EventReady})
			case "disconnected":
				handler(ports.Event{Kind: ports.EventDisconnected})
			}
			last = cur
		}
	}
}

func (c *Client) status(ctx context.Context) (statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return statusResponse{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return statusResponse{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusResponse{}, fmt.Errorf("gateway status returned %d", resp.StatusCode)
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return statusResponse{}, fmt.Errorf("decode status: %w", err)
	}
	return out, nil
}

// post marshals payload, posts it, decodes into out when non-nil, and returns
// the HTTP status code.
func (c *Client) post(ctx context.Context, path string, payload, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
