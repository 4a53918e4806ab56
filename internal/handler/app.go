package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"keyword-scout/pkg/logger"
)

// AppConfig holds the fiber settings the server exposes.
type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
	AllowOrigins string
	// StaticDir serves the web pages at / when set.
	StaticDir string
}

// NewApp builds the fiber app with recovery, request ids, CORS for /api and
// request logging, and mounts h.
func NewApp(cfg AppConfig, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "keyword-scout",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(logger.GetLogger().WithField("component", "http")))

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use("/api", cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Content-Type",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	h.Register(app)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		entry := log.WithFields(map[string]interface{}{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   time.Since(start).String(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		})
		if status >= fiber.StatusInternalServerError {
			entry.Error("Request completed")
		} else {
			entry.Debug("Request completed")
		}
		return err
	}
}
