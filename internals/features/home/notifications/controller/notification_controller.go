package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/home/notifications/dto"
	"feeportal_backend/internals/features/home/notifications/model"
	"feeportal_backend/internals/features/home/notifications/service"
	helper "feeportal_backend/internals/helpers"
)

type Sender interface {
	Send(ctx context.Context, in service.SendInput) (*model.NotificationModel, int, bool, error)
}

type NotificationController struct {
	DB     *gorm.DB
	Sender Sender
}

func NewNotificationController(db *gorm.DB, sender Sender) *NotificationController {
	return &NotificationController{DB: db, Sender: sender}
}

/* =========================================================
   POST /api/a/notifications
========================================================= */

func (ctrl *NotificationController) CreateNotification(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}

	notif, recipients, _, err := ctrl.Sender.Send(helper.ReqCtx(c), req.ToSendInput(adminID))
	if err != nil {
		if errors.Is(err, service.ErrUnknownRecipient) {
			return helper.JsonError(c, fiber.StatusNotFound, "recipient not found")
		}
		log.Printf("[ERROR] send notification: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to send notification")
	}

	return helper.JsonCreated(c, "notification sent", fiber.Map{
		"notification": dto.ToNotificationResponse(*notif),
		"recipients":   recipients,
	})
}

/* =========================================================
   GET /api/a/notifications?audience=&type=&page=&per_page=
========================================================= */

func (ctrl *NotificationController) GetAllNotifications(c *fiber.Ctx) error {
	var q dto.ListNotificationQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 10, 100)

	db := ctrl.DB.WithContext(helper.ReqCtx(c)).Model(&model.NotificationModel{})
	if q.Audience != "" {
		db = db.Where("notification_audience = ?", q.Audience)
	}
	if q.Type > 0 {
		db = db.Where("notification_type = ?", q.Type)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count notifications")
	}
	var notifs []model.NotificationModel
	if err := db.Order("notification_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&notifs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch notifications")
	}

	return helper.JsonList(c, "ok", dto.ToNotificationResponseList(notifs), p.Pagination(total))
}

/* =========================================================
   DELETE /api/a/notifications/:id
========================================================= */

func (ctrl *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var notif model.NotificationModel
	if err := ctrl.DB.WithContext(helper.ReqCtx(c)).
		First(&notif, "notification_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "notification not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch notification")
	}

	if err := ctrl.DB.WithContext(helper.ReqCtx(c)).Delete(&notif).Error; err != nil {
		log.Printf("[ERROR] delete notification: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete notification")
	}
	return helper.JsonDeleted(c, "notification deleted", fiber.Map{"notification_id": id})
}
