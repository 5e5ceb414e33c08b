package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allow-lists browser origins for the blast API. An origin is admitted
// when it starts with any configured entry, so "https://user.github.io" also
// covers project pages under that host.
func CORS(allowed []string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			for _, a := range allowed {
				if strings.HasPrefix(origin, a) {
					return true
				}
			}
			return false
		},
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Request-ID",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length,X-Request-ID",
		MaxAge:           3600,
	})
}
