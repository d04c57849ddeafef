package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeGeneral     = 1
	NotificationTypeFeeReminder = 2
	NotificationTypePayment     = 3
)

const (
	AudienceAll        = "all"
	AudienceUniversity = "university"
	AudienceUser       = "user"
)

type NotificationModel struct {
	NotificationID           uuid.UUID      `gorm:"column:notification_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"notification_id"`
	NotificationTitle        string         `gorm:"column:notification_title;type:varchar(255);not null" json:"notification_title"`
	NotificationDescription  string         `gorm:"column:notification_description;type:text" json:"notification_description"`
	NotificationType         int            `gorm:"column:notification_type;not null;default:1" json:"notification_type"`
	NotificationAudience     string         `gorm:"column:notification_audience;type:varchar(20);not null;default:'all'" json:"notification_audience"`
	NotificationUniversityID *uuid.UUID     `gorm:"column:notification_university_id;type:uuid;index" json:"notification_university_id,omitempty"`
	NotificationUserID       *uuid.UUID     `gorm:"column:notification_user_id;type:uuid;index" json:"notification_user_id,omitempty"`
	NotificationTags         pq.StringArray `gorm:"column:notification_tags;type:text[]" json:"notification_tags"`
	NotificationData         datatypes.JSON `gorm:"column:notification_data;type:jsonb" json:"notification_data,omitempty"`
	NotificationCreatedBy    *uuid.UUID     `gorm:"column:notification_created_by;type:uuid" json:"notification_created_by,omitempty"`

	CreatedAt time.Time      `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
	UpdatedAt time.Time      `gorm:"column:notification_updated_at;autoUpdateTime" json:"notification_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:notification_deleted_at;index" json:"-"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// UserNotificationModel is one recipient's copy of a notification.
// DedupKey is set for system notifications that must be delivered at most once.
type UserNotificationModel struct {
	UserNotificationID             uuid.UUID  `gorm:"column:user_notification_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"user_notification_id"`
	UserNotificationNotificationID uuid.UUID  `gorm:"column:user_notification_notification_id;type:uuid;not null;index" json:"user_notification_notification_id"`
	UserNotificationUserID         uuid.UUID  `gorm:"column:user_notification_user_id;type:uuid;not null;index" json:"user_notification_user_id"`
	UserNotificationDedupKey       *string    `gorm:"column:user_notification_dedup_key;type:varchar(200);uniqueIndex" json:"-"`
	UserNotificationRead           bool       `gorm:"column:user_notification_read;not null;default:false" json:"user_notification_read"`
	UserNotificationReadAt         *time.Time `gorm:"column:user_notification_read_at" json:"user_notification_read_at,omitempty"`
	UserNotificationSentAt         time.Time  `gorm:"column:user_notification_sent_at;not null" json:"user_notification_sent_at"`

	Notification NotificationModel `gorm:"foreignKey:UserNotificationNotificationID;references:NotificationID;constraint:OnDelete:CASCADE" json:"notification"`
}

func (UserNotificationModel) TableName() string {
	return "user_notifications"
}
