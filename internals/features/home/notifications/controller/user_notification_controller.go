package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/home/notifications/dto"
	"feeportal_backend/internals/features/home/notifications/model"
	helper "feeportal_backend/internals/helpers"
)

type NotificationUserController struct {
	DB *gorm.DB
}

func NewNotificationUserController(db *gorm.DB) *NotificationUserController {
	return &NotificationUserController{DB: db}
}

/* =========================================================
   GET /api/u/notifications?unread=true&page=&per_page=
========================================================= */

func (ctrl *NotificationUserController) GetMyNotifications(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var q dto.ListInboxQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 10, 100)

	db := ctrl.DB.WithContext(helper.ReqCtx(c)).
		Model(&model.UserNotificationModel{}).
		Where("user_notification_user_id = ?", userID)
	if q.Unread {
		db = db.Where("user_notification_read = ?", false)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count inbox: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count notifications")
	}

	var rows []model.UserNotificationModel
	if err := db.Preload("Notification").
		Order("user_notification_sent_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] fetch inbox: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch notifications")
	}

	out := make([]dto.InboxItemResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToInboxItemResponse(r))
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

/* =========================================================
   PATCH /api/u/notifications/:id/read
========================================================= */

func (ctrl *NotificationUserController) MarkAsRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	res := ctrl.DB.WithContext(helper.ReqCtx(c)).
		Model(&model.UserNotificationModel{}).
		Where("user_notification_id = ? AND user_notification_user_id = ?", id, userID).
		Updates(map[string]any{
			"user_notification_read":    true,
			"user_notification_read_at": time.Now(),
		})
	if res.Error != nil {
		log.Printf("[ERROR] mark notification read: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update notification")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "notification not found")
	}
	return helper.JsonUpdated(c, "notification marked as read", fiber.Map{"user_notification_id": id})
}
