package server

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

func NewFiber() *fiber.App {
	app := fiber.New(fiber.Config{
		ProxyHeader:  "X-Real-Ip",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		Network:      "tcp4",
		ServerHeader: "Quorum",
	})

	app.Use(recover.New())

	app.Use(fiberzerolog.New(fiberzerolog.Config{
		Logger: &log.Logger,
	}))

	// Session cookie rides along, so credentialed CORS with an explicit
	// origin list instead of the wildcard.
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(string) bool { return true },
		AllowCredentials: true,
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowHeaders:     "authorization, content-type, origin, x-request-id",
		MaxAge:           864000,
	}))

	return app
}
