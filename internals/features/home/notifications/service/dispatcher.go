package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"feeportal_backend/internals/constants"
	"feeportal_backend/internals/features/home/notifications/model"
	userModel "feeportal_backend/internals/features/users/user/model"
	helper "feeportal_backend/internals/helpers"
	"feeportal_backend/internals/queue"
)

var ErrUnknownRecipient = errors.New("recipient not found")

// EmailJob is published on queue.TopicNotificationEmail for the external mailer.
type EmailJob struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	To             string    `json:"to"`
	Name           string    `json:"name"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	Type           int       `json:"type"`
}

type SendInput struct {
	Title        string
	Description  string
	Type         int
	Audience     string
	UniversityID *uuid.UUID
	UserID       *uuid.UUID
	Tags         []string
	Data         map[string]any
	CreatedBy    *uuid.UUID
	// DedupKey only applies to single-user sends.
	DedupKey string
}

type Dispatcher struct {
	DB        *gorm.DB
	Publisher queue.Publisher
	now       func() time.Time
}

func NewDispatcher(db *gorm.DB, publisher queue.Publisher) *Dispatcher {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &Dispatcher{DB: db, Publisher: publisher, now: time.Now}
}

type recipient struct {
	ID       uuid.UUID
	Email    string
	UserName string
	FullName *string
}

func (r recipient) displayName() string {
	if r.FullName != nil && *r.FullName != "" {
		return *r.FullName
	}
	return r.UserName
}

// Send stores the notification, fans it out to every recipient's inbox and queues one
// e-mail job per recipient. created is false when a dedup key was already delivered.
func (d *Dispatcher) Send(ctx context.Context, in SendInput) (notif *model.NotificationModel, recipients int, created bool, err error) {
	users, err := d.resolveRecipients(ctx, in)
	if err != nil {
		return nil, 0, false, err
	}

	notif = &model.NotificationModel{
		NotificationTitle:        in.Title,
		NotificationDescription:  in.Description,
		NotificationType:         in.Type,
		NotificationAudience:     in.Audience,
		NotificationUniversityID: in.UniversityID,
		NotificationUserID:       in.UserID,
		NotificationTags:         in.Tags,
		NotificationCreatedBy:    in.CreatedBy,
	}
	if notif.NotificationType == 0 {
		notif.NotificationType = model.NotificationTypeGeneral
	}
	if len(in.Data) > 0 {
		raw, err := json.Marshal(in.Data)
		if err != nil {
			return nil, 0, false, err
		}
		notif.NotificationData = datatypes.JSON(raw)
	}

	sentAt := d.now()
	err = d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notif).Error; err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}
		rows := make([]model.UserNotificationModel, 0, len(users))
		for _, u := range users {
			row := model.UserNotificationModel{
				UserNotificationNotificationID: notif.NotificationID,
				UserNotificationUserID:         u.ID,
				UserNotificationSentAt:         sentAt,
			}
			if in.DedupKey != "" && in.Audience == model.AudienceUser {
				key := in.DedupKey
				row.UserNotificationDedupKey = &key
			}
			rows = append(rows, row)
		}
		return tx.CreateInBatches(&rows, 500).Error
	})
	if err != nil {
		if in.DedupKey != "" && helper.IsUniqueViolation(err) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}

	d.queueEmails(notif, users)
	return notif, len(users), true, nil
}

func (d *Dispatcher) resolveRecipients(ctx context.Context, in SendInput) ([]recipient, error) {
	q := d.DB.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Select("id", "email", "user_name", "full_name").
		Where("is_active = ?", true)

	switch in.Audience {
	case model.AudienceUser:
		if in.UserID == nil {
			return nil, ErrUnknownRecipient
		}
		q = q.Where("id = ?", *in.UserID)
	case model.AudienceUniversity:
		if in.UniversityID == nil {
			return nil, ErrUnknownRecipient
		}
		q = q.Where("role = ? AND university_id = ?", constants.RoleStudent, *in.UniversityID)
	default:
		q = q.Where("role = ?", constants.RoleStudent)
	}

	var out []recipient
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	if in.Audience == model.AudienceUser && len(out) == 0 {
		return nil, ErrUnknownRecipient
	}
	return out, nil
}

func (d *Dispatcher) queueEmails(notif *model.NotificationModel, users []recipient) {
	failed := 0
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		job := EmailJob{
			NotificationID: notif.NotificationID,
			UserID:         u.ID,
			To:             u.Email,
			Name:           u.displayName(),
			Subject:        notif.NotificationTitle,
			Body:           notif.NotificationDescription,
			Type:           notif.NotificationType,
		}
		if err := d.Publisher.Publish(queue.TopicNotificationEmail, job); err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.WithFields(log.Fields{
			"notification_id": notif.NotificationID,
			"failed":          failed,
		}).Warn("[NOTIFICATION] some e-mail jobs were not queued")
	}
}
