package controller

import (
	"context"
	"time"

	"hr-faq-be/internal/dto"
	"hr-faq-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing store answers.
type Pinger func(ctx context.Context) error

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	corpusSize   int
	sessionStore string
	database     Pinger
}

func NewHealthController(corpusSize int, sessionStore string, database Pinger) IHealthController {
	return &healthController{
		corpusSize:   corpusSize,
		sessionStore: sessionStore,
		database:     database,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{
		Status:      "ok",
		CorpusSize:  c.corpusSize,
		Database:    "up",
		SessionMode: c.sessionStore,
	}

	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()
	if c.database == nil || c.database(pingCtx) != nil {
		res.Status = "degraded"
		res.Database = "down"
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.Response[dto.HealthResponse]{
			Success: false,
			Code:    fiber.StatusServiceUnavailable,
			Message: "Service degraded",
			Data:    res,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Service healthy", res))
}
