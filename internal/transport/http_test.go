package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-chat-blast/internal/app"
	"golang-chat-blast/internal/domain"
	"golang-chat-blast/internal/policy"
	"golang-chat-blast/internal/ports"
	"golang-chat-blast/internal/session"
	"golang-chat-blast/internal/transport"

	"github.com/gofiber/fiber/v2"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubTransport struct {
	known     map[string]bool
	handlerCh chan func(ports.Event)
}

func (s *stubTransport) ResolveAddress(ctx context.Context, normalized string) (ports.Address, bool, error) {
	if !s.known[normalized] {
		return "", false, nil
	}
	return ports.Address(normalized), true, nil
}

func (s *stubTransport) SetComposing(ctx context.Context, addr ports.Address, composing bool) error {
	return nil
}

func (s *stubTransport) SendText(ctx context.Context, addr ports.Address, text string) error {
	return nil
}

func (s *stubTransport) Lifecycle(ctx context.Context, handler func(ports.Event)) error {
	s.handlerCh <- handler
	<-ctx.Done()
	return ctx.Err()
}

type recorderFunc func(ctx context.Context, rec domain.BatchRecord) error

func (f recorderFunc) Record(ctx context.Context, rec domain.BatchRecord) error { return f(ctx, rec) }

// newApp wires a full Fiber app over stubbed collaborators and returns it
// with the event injector.
func newApp(t *testing.T, known ...string) (*fiber.App, func(ports.Event)) {
	t.Helper()

	stub := &stubTransport{
		known:     map[string]bool{},
		handlerCh: make(chan func(ports.Event), 1),
	}
	for _, k := range known {
		stub.known[k] = true
	}

	sess := session.NewManager(stub, "test-account", testLogger()).
		WithTimers(func(time.Duration) {}, func() float64 { return 0 })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = sess.Run(ctx) }()

	var emit func(ports.Event)
	select {
	case emit = <-stub.handlerCh:
	case <-time.After(time.Second):
		t.Fatal("lifecycle handler never registered")
	}

	dispatcher := app.NewDispatcher(
		sess,
		policy.NewQuota(100),
		policy.NewPacerWithRand(func() float64 { return 0 }),
		recorderFunc(func(context.Context, domain.BatchRecord) error { return nil }),
		nil,
		testLogger(),
	).WithSleeper(func(time.Duration) {})

	fiberApp := fiber.New()
	transport.NewHandler(dispatcher, sess, testLogger()).Register(fiberApp)
	return fiberApp, emit
}

func TestHealth(t *testing.T) {
	t.Parallel()

	fiberApp, emit := newApp(t)

	resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	var body struct {
		OK        bool   `json:"ok"`
		Ready     bool   `json:"ready"`
		SentToday int    `json:"sent_today"`
		Now       string `json:"now"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if !body.OK || body.Ready || body.SentToday != 0 || body.Now == "" {
		t.Fatalf("unexpected health body: %+v", body)
	}

	emit(ports.Event{Kind: ports.EventReady})

	resp, err = fiberApp.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("second health request failed: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if !body.Ready {
		t.Fatal("ready flag not reflected after ready event")
	}
}

func TestPairingImageEndpoint(t *testing.T) {
	t.Parallel()

	fiberApp, emit := newApp(t)

	resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/qr", nil))
	if err != nil {
		t.Fatalf("qr request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("qr without artifact = %d, want 404", resp.StatusCode)
	}

	emit(ports.Event{Kind: ports.EventPairingCode, Code: "pair-abc"})

	resp, err = fiberApp.Test(httptest.NewRequest(http.MethodGet, "/qr", nil))
	if err != nil {
		t.Fatalf("qr request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("qr with artifact = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("qr content type = %q", ct)
	}
	png, _ := io.ReadAll(resp.Body)
	if len(png) == 0 {
		t.Fatal("qr body is empty")
	}
}

func TestSendEndpoint(t *testing.T) {
	t.Parallel()

	fiberApp, emit := newApp(t, "15550100")

	post := func(payload string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/send", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := fiberApp.Test(req, -1)
		if err != nil {
			t.Fatalf("send request failed: %v", err)
		}
		return resp
	}

	// Session still initializing; even a bad payload gets the 503.
	if resp := post(`{"recipients":["+1 555-0100"],"message":"hi"}`); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("send before ready = %d, want 503", resp.StatusCode)
	}
	if resp := post(`{"recipients":[],"message":""}`); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("invalid payload before ready = %d, want 503", resp.StatusCode)
	}

	emit(ports.Event{Kind: ports.EventReady})

	// Malformed payloads.
	if resp := post(`{"recipients":[],"message":"hi"}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("send with no recipients = %d, want 400", resp.StatusCode)
	}
	if resp := post(`{"recipients":["+1 555-0100"]}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("send without message = %d, want 400", resp.StatusCode)
	}

	// Happy path with one bad identifier.
	resp := post(`{"recipients":["+1 555-0100","abc"],"message":"Hi {nome}","context":{"nome":"Lee"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Total   int `json:"total"`
		Results []struct {
			Recipient string `json:"recipient"`
			Status    string `json:"status"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode send body: %v", err)
	}
	if body.Total != 2 || len(body.Results) != 2 {
		t.Fatalf("unexpected send body: %+v", body)
	}
	if body.Results[0].Status != "sent" || body.Results[1].Status != "invalid_recipient" {
		t.Fatalf("unexpected statuses: %+v", body.Results)
	}
}
