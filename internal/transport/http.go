package transport

import (
	"errors"
	"log/slog"
	"time"

	"golang-chat-blast/internal/app"
	"golang-chat-blast/internal/domain"
	"golang-chat-blast/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Handler holds all HTTP handlers for the blast service.
type Handler struct {
	dispatcher *app.Dispatcher
	session    *session.Manager
	log        *slog.Logger
}

// NewHandler wires up a Handler with its dependencies.
func NewHandler(dispatcher *app.Dispatcher, sess *session.Manager, log *slog.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, session: sess, log: log}
}

// Register mounts all routes onto the given Fiber app.
func (h *Handler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Get("/qr", h.PairingImage)
	router.Post("/send", h.Send)
}

// ── Health ────────────────────────────────────────────────────────────────────

type healthResponse struct {
	OK        bool      `json:"ok"`
	Ready     bool      `json:"ready"`
	SentToday int       `json:"sent_today"`
	Now       time.Time `json:"now"`
}

// Health reports session readiness and the cumulative send count.
//
// GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(healthResponse{
		OK:        true,
		Ready:     h.session.Ready(),
		SentToday: h.dispatcher.Sent(),
		Now:       time.Now().UTC(),
	})
}

// ── Pairing artifact ──────────────────────────────────────────────────────────

// PairingImage serves the current pairing challenge as a PNG.
//
// GET /qr
func (h *Handler) PairingImage(c *fiber.Ctx) error {
	png, ok := h.session.PairingImage()
	if !ok {
		return c.Status(fiber.StatusNotFound).
			SendString("pairing code not generated yet; check the logs")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// ── Batch send ────────────────────────────────────────────────────────────────

type sendRequest struct {
	Recipients []string          `json:"recipients"`
	Message    string            `json:"message"`
	Context    map[string]string `json:"context"`
	Label      string            `json:"label"`
}

type sendResponse struct {
	Total   int                 `json:"total"`
	Results []domain.SendResult `json:"results"`
}

// Send accepts a batch request and runs it through the dispatch pipeline.
// The response is only written once the whole batch has been processed.
//
// POST /send
// Body: { "recipients": ["...", ...], "message": "...", "context": {...}, "label": "..." }
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rec, err := h.dispatcher.RunBatch(c.Context(), domain.BatchRequest{
		Recipients: req.Recipients,
		Template:   req.Message,
		Context:    req.Context,
		Label:      req.Label,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recipients and message are required"})
	case errors.Is(err, domain.ErrSessionNotReady):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "session is still initializing"})
	case err != nil:
		h.log.Error("run batch", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(sendResponse{
		Total:   h.dispatcher.Sent(),
		Results: rec.Results,
	})
}
