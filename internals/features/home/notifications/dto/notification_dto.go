package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"feeportal_backend/internals/features/home/notifications/model"
	"feeportal_backend/internals/features/home/notifications/service"
)

type CreateNotificationRequest struct {
	Title        string         `json:"title" validate:"required,max=255"`
	Description  string         `json:"description" validate:"max=5000"`
	Audience     string         `json:"audience" validate:"required,oneof=all university user"`
	UniversityID *uuid.UUID     `json:"university_id" validate:"required_if=Audience university"`
	UserID       *uuid.UUID     `json:"user_id" validate:"required_if=Audience user"`
	Tags         []string       `json:"tags" validate:"max=10,dive,max=50"`
	Data         map[string]any `json:"data"`
}

func (r *CreateNotificationRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Audience = strings.ToLower(strings.TrimSpace(r.Audience))
	tags := r.Tags[:0]
	for _, t := range r.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	r.Tags = tags
}

func (r CreateNotificationRequest) ToSendInput(createdBy uuid.UUID) service.SendInput {
	in := service.SendInput{
		Title:       r.Title,
		Description: r.Description,
		Type:        model.NotificationTypeGeneral,
		Audience:    r.Audience,
		Tags:        r.Tags,
		Data:        r.Data,
		CreatedBy:   &createdBy,
	}
	switch r.Audience {
	case model.AudienceUniversity:
		in.UniversityID = r.UniversityID
	case model.AudienceUser:
		in.UserID = r.UserID
	}
	return in
}

type ListNotificationQuery struct {
	Audience string `query:"audience"`
	Type     int    `query:"type"`
}

type ListInboxQuery struct {
	Unread bool `query:"unread"`
}

type NotificationResponse struct {
	NotificationID           uuid.UUID      `json:"notification_id"`
	NotificationTitle        string         `json:"notification_title"`
	NotificationDescription  string         `json:"notification_description"`
	NotificationType         int            `json:"notification_type"`
	NotificationAudience     string         `json:"notification_audience"`
	NotificationUniversityID *uuid.UUID     `json:"notification_university_id,omitempty"`
	NotificationUserID       *uuid.UUID     `json:"notification_user_id,omitempty"`
	NotificationTags         []string       `json:"notification_tags"`
	NotificationData         datatypes.JSON `json:"notification_data,omitempty"`
	NotificationCreatedAt    time.Time      `json:"notification_created_at"`
}

func ToNotificationResponse(m model.NotificationModel) NotificationResponse {
	tags := []string(m.NotificationTags)
	if tags == nil {
		tags = []string{}
	}
	return NotificationResponse{
		NotificationID:           m.NotificationID,
		NotificationTitle:        m.NotificationTitle,
		NotificationDescription:  m.NotificationDescription,
		NotificationType:         m.NotificationType,
		NotificationAudience:     m.NotificationAudience,
		NotificationUniversityID: m.NotificationUniversityID,
		NotificationUserID:       m.NotificationUserID,
		NotificationTags:         tags,
		NotificationData:         m.NotificationData,
		NotificationCreatedAt:    m.CreatedAt,
	}
}

func ToNotificationResponseList(rows []model.NotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToNotificationResponse(r))
	}
	return out
}

type InboxItemResponse struct {
	UserNotificationID uuid.UUID            `json:"user_notification_id"`
	Read               bool                 `json:"read"`
	ReadAt             *time.Time           `json:"read_at,omitempty"`
	SentAt             time.Time            `json:"sent_at"`
	Notification       NotificationResponse `json:"notification"`
}

func ToInboxItemResponse(m model.UserNotificationModel) InboxItemResponse {
	return InboxItemResponse{
		UserNotificationID: m.UserNotificationID,
		Read:               m.UserNotificationRead,
		ReadAt:             m.UserNotificationReadAt,
		SentAt:             m.UserNotificationSentAt,
		Notification:       ToNotificationResponse(m.Notification),
	}
}
