package middleware

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config carries the knobs for the shared middleware chain.
type Config struct {
	Logger       *zerolog.Logger
	AllowOrigins string
}

// Register installs the middleware stack every route runs through: panic
// recovery first, then correlation IDs so the rest of the chain can tag
// log lines and metrics, then request metrics, access logging, and CORS.
func Register(app *fiber.App, cfg Config) {
	structured := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		structured = *cfg.Logger
	}

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(CorrelationID())
	app.Use(Observability(structured))
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
}
