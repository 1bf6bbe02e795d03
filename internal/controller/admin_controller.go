package controller

import (
	"errors"
	"strconv"

	"hr-faq-be/internal/dto"
	"hr-faq-be/internal/pkg/serverutils"
	"hr-faq-be/internal/service"
	"hr-faq-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	IssueToken(ctx *fiber.Ctx) error
	ListQuestions(ctx *fiber.Ctx) error
	GetQuestion(ctx *fiber.Ctx) error
	AnswerQuestion(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
	auth    *serverutils.AdminAuth
}

func NewAdminController(service service.IAdminService, auth *serverutils.AdminAuth) IAdminController {
	return &adminController{
		service: service,
		auth:    auth,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("token", c.IssueToken)

	protected := h.Group("", c.auth.Middleware)
	protected.Get("questions", c.ListQuestions)
	protected.Get("questions/:id", c.GetQuestion)
	protected.Put("questions/:id/answer", c.AnswerQuestion)
	protected.Delete("sessions/:id", c.ClearSession)
	protected.Get("logs", c.GetLogs)
	protected.Get("logs/:id", c.GetLogDetail)
}

func (c *adminController) IssueToken(ctx *fiber.Ctx) error {
	var req dto.AdminTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("admin token", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	token, expiresAt, err := c.auth.IssueToken(req.Secret)
	if err != nil {
		if errors.Is(err, serverutils.ErrInvalidSecret) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid admin secret"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Token issued", dto.AdminTokenResponse{Token: token, ExpiresAt: expiresAt}))
}

func (c *adminController) ListQuestions(ctx *fiber.Ctx) error {
	res, err := c.service.ListQuestions(ctx.UserContext(), ctx.Query("status"), ctx.QueryInt("limit", 20), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get questions", res))
}

func (c *adminController) GetQuestion(ctx *fiber.Ctx) error {
	id, err := questionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetQuestion(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get question", res))
}

func (c *adminController) AnswerQuestion(ctx *fiber.Ctx) error {
	id, err := questionID(ctx)
	if err != nil {
		return err
	}

	var req dto.AnswerQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("answer question", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AnswerQuestion(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Question answered", res))
}

func (c *adminController) ClearSession(ctx *fiber.Ctx) error {
	if err := c.service.ClearSession(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session cleared", nil))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	res, err := c.service.GetSystemLogs(ctx.UserContext(), ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20), ctx.Query("level"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	res, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get log detail", res))
}

func questionID(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("question id", errors.New("id must be a positive integer"))
	}
	return id, nil
}
