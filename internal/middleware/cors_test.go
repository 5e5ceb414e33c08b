package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"golang-chat-blast/internal/middleware"
)

func TestCORSPrefixAdmission(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Use(middleware.CORS([]string{"https://user.github.io", "http://localhost:3000"}))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name     string
		origin   string
		admitted bool
	}{
		{name: "exact origin", origin: "https://user.github.io", admitted: true},
		{name: "project page under allowed host", origin: "https://user.github.io/project", admitted: true},
		{name: "localhost dev server", origin: "http://localhost:3000", admitted: true},
		{name: "unrelated origin", origin: "https://evil.example", admitted: false},
		{name: "allowed host as substring only", origin: "https://not-user.github.io", admitted: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/health", nil)
			req.Header.Set("Origin", tt.origin)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}
			defer resp.Body.Close()

			got := resp.Header.Get("Access-Control-Allow-Origin")
			if tt.admitted && got != tt.origin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.origin)
			}
			if !tt.admitted && got != "" {
				t.Errorf("Access-Control-Allow-Origin = %q for refused origin %s, want empty", got, tt.origin)
			}
		})
	}
}
