package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"feeportal_backend/internals/features/finance/payments/dto"
	"feeportal_backend/internals/features/finance/payments/model"
	"feeportal_backend/internals/features/finance/payments/service"
	helper "feeportal_backend/internals/helpers"
)

type PaymentAdminController struct {
	Svc PaymentUsecase
}

func NewPaymentAdminController(svc PaymentUsecase) *PaymentAdminController {
	return &PaymentAdminController{Svc: svc}
}

/* =========================================================
   LIST
   GET /payments?user_id=&status=&year=&page=&per_page=
========================================================= */

func (ctl *PaymentAdminController) List(c *fiber.Ctx) error {
	var q dto.ListTransactionQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	status, ok := q.StatusPtr()
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid status filter")
	}
	p := helper.ResolvePaging(c, 20, 200)

	rows, total, err := ctl.Svc.ListTransactions(helper.ReqCtx(c), service.TransactionFilter{
		UserID: q.UserID,
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
   PATCH /payments/:product_id/status
========================================================= */

func (ctl *PaymentAdminController) OverrideStatus(c *fiber.Ctx) error {
	var req dto.OverrideStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}

	tx, err := ctl.Svc.OverrideStatus(helper.ReqCtx(c), c.Params("product_id"), model.PaymentStatus(req.Status), req.Note)
	if err != nil {
		return respondPaymentError(c, err, "override payment status")
	}
	return helper.JsonUpdated(c, "payment status updated", dto.ToTransactionResponse(*tx))
}

/* =========================================================
   GET /users/:id/fees/summary
========================================================= */

func (ctl *PaymentAdminController) UserSummary(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := ctl.Svc.GetFeeSummary(helper.ReqCtx(c), userID)
	if err != nil {
		return respondPaymentError(c, err, "build fee summary")
	}
	return helper.JsonOK(c, "ok", out)
}
