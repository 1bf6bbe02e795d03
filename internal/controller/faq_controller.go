package controller

import (
	"hr-faq-be/internal/dto"
	"hr-faq-be/internal/pkg/serverutils"
	"hr-faq-be/internal/service"
	"hr-faq-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type IFaqController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	CommonQuestions(ctx *fiber.Ctx) error
}

type faqController struct {
	faqService service.IFaqService
	limiter    fiber.Handler
}

// NewFaqController wires the public FAQ surface. limiter guards /ask and may be nil.
func NewFaqController(faqService service.IFaqService, limiter fiber.Handler) IFaqController {
	return &faqController{
		faqService: faqService,
		limiter:    limiter,
	}
}

func (c *faqController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/faq/v1")
	if c.limiter != nil {
		h.Post("ask", c.limiter, c.Ask)
	} else {
		h.Post("ask", c.Ask)
	}
	h.Post("feedback", c.Feedback)
	h.Get("common-questions", c.CommonQuestions)
}

func (c *faqController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("ask", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.faqService.Ask(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve question", res))
}

func (c *faqController) Feedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("feedback", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.faqService.SubmitFeedback(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Feedback recorded", res))
}

func (c *faqController) CommonQuestions(ctx *fiber.Ctx) error {
	res := c.faqService.CommonQuestions(ctx.Query("language", "ar"))
	return ctx.JSON(serverutils.SuccessResponse("Success get common questions", res))
}
