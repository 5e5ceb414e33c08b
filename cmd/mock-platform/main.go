package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// mock-platform emulates the messaging-platform gateway the blast-api talks
// to. It boots in pairing state with a fresh code; POST /pair simulates the
// operator scanning it, after which /resolve, /presence and /send behave like
// an authenticated session. Identifiers with 8-15 digits resolve; everything
// else is unknown.

type gatewayState struct {
	mu          sync.Mutex
	state       string // "pairing" | "ready" | "disconnected"
	pairingCode string
}

type resolveRequest struct {
	Recipient string `json:"recipient"`
}

type presenceRequest struct {
	Address   string `json:"address"`
	Composing bool   `json:"composing"`
}

type sendTextRequest struct {
	Address string `json:"address"`
	Text    string `json:"text"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	addr := getenv("HTTP_ADDR", ":9090")

	gw := &gatewayState{
		state:       "pairing",
		pairingCode: "pair-" + uuid.New().String(),
	}

	fiberApp := fiber.New(fiber.Config{AppName: "mock-platform"})

	// GET /status — current session state, polled by the blast-api.
	fiberApp.Get("/status", func(c *fiber.Ctx) error {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		resp := fiber.Map{"state": gw.state}
		if gw.state == "pairing" {
			resp["pairing_code"] = gw.pairingCode
		}
		return c.JSON(resp)
	})

	// POST /pair — simulate the operator scanning the pairing code.
	fiberApp.Post("/pair", func(c *fiber.Ctx) error {
		gw.mu.Lock()
		gw.state = "ready"
		gw.pairingCode = ""
		gw.mu.Unlock()
		log.Info("mock platform paired")
		return c.SendStatus(fiber.StatusNoContent)
	})

	// POST /drop — simulate losing authentication; a new code is issued.
	fiberApp.Post("/drop", func(c *fiber.Ctx) error {
		gw.mu.Lock()
		gw.state = "pairing"
		gw.pairingCode = "pair-" + uuid.New().String()
		gw.mu.Unlock()
		log.Info("mock platform dropped session")
		return c.SendStatus(fiber.StatusNoContent)
	})

	// POST /resolve — identifier existence check.
	fiberApp.Post("/resolve", func(c *fiber.Ctx) error {
		var req resolveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if n := len(req.Recipient); n < 8 || n > 15 {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.JSON(fiber.Map{"address": req.Recipient + "@mock"})
	})

	// POST /presence — typing indicator toggle.
	fiberApp.Post("/presence", func(c *fiber.Ctx) error {
		var req presenceRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		log.Info("presence", "address", req.Address, "composing", req.Composing)
		return c.SendStatus(fiber.StatusNoContent)
	})

	// POST /send — accept a message delivery.
	fiberApp.Post("/send", func(c *fiber.Ctx) error {
		var req sendTextRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		gw.mu.Lock()
		ready := gw.state == "ready"
		gw.mu.Unlock()
		if !ready {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "not paired"})
		}

		log.Info("mock platform delivered message", "address", req.Address, "chars", len(req.Text))
		return c.SendStatus(fiber.StatusAccepted)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("mock-platform listening", "addr", addr)
		if err := fiberApp.Listen(addr); err != nil {
			log.Error("fiber listen", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down mock-platform")
	_ = fiberApp.Shutdown()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
