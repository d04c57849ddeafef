package controller

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"feeportal_backend/internals/features/finance/payments/dto"
	"feeportal_backend/internals/features/finance/payments/model"
	"feeportal_backend/internals/features/finance/payments/service"
	helper "feeportal_backend/internals/helpers"
)

// PaymentUsecase is the part of service.PaymentService the HTTP layer uses.
type PaymentUsecase interface {
	InitiatePayment(ctx context.Context, userID uuid.UUID, amount int64, productID, year string) (*service.InitiateResponse, error)
	ReconcileStatus(ctx context.Context, userID uuid.UUID, productID string) (*service.ReconcileResponse, error)
	ReconcileByProductID(ctx context.Context, productID string) (*service.ReconcileResponse, error)
	OverrideStatus(ctx context.Context, productID string, status model.PaymentStatus, note string) (*model.PaymentTransaction, error)
	ListTransactions(ctx context.Context, f service.TransactionFilter) ([]model.PaymentTransaction, int64, error)
	GetFeeSummary(ctx context.Context, userID uuid.UUID) ([]service.FeeSummaryEntry, error)
}

type PaymentUserController struct {
	Svc PaymentUsecase
}

func NewPaymentUserController(svc PaymentUsecase) *PaymentUserController {
	return &PaymentUserController{Svc: svc}
}

/* =========================================================
   GET /fees/summary
========================================================= */

func (ctl *PaymentUserController) Summary(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	out, err := ctl.Svc.GetFeeSummary(helper.ReqCtx(c), userID)
	if err != nil {
		return respondPaymentError(c, err, "build fee summary")
	}
	return helper.JsonOK(c, "ok", out)
}

/* =========================================================
   POST /payments
========================================================= */

func (ctl *PaymentUserController) Initiate(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()

	res, err := ctl.Svc.InitiatePayment(helper.ReqCtx(c), userID, req.Amount, req.ProductID, req.Year)
	if err != nil {
		return respondPaymentError(c, err, "initiate payment")
	}
	return helper.JsonCreated(c, "payment initiated", res)
}

/* =========================================================
   GET /payments
========================================================= */

func (ctl *PaymentUserController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var q dto.ListTransactionQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	status, ok := q.StatusPtr()
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid status filter")
	}
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctl.Svc.ListTransactions(helper.ReqCtx(c), service.TransactionFilter{
		UserID: &userID,
		Status: status,
		Year:   strings.TrimSpace(q.Year),
		Offset: p.Offset,
		Limit:  p.Limit,
	})
	if err != nil {
		return respondPaymentError(c, err, "fetch transactions")
	}
	return helper.JsonList(c, "ok", dto.ToTransactionResponses(rows), p.Pagination(total))
}

/* =========================================================
   GET /payments/:product_id/status
========================================================= */

func (ctl *PaymentUserController) Status(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	productID := strings.TrimSpace(c.Params("product_id"))
	if productID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "product_id is required")
	}
	res, err := ctl.Svc.ReconcileStatus(helper.ReqCtx(c), userID, productID)
	if err != nil {
		return respondPaymentError(c, err, "check payment status")
	}
	return helper.JsonOK(c, "ok", res)
}
