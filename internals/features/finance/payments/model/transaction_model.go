package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentTransaction is one payment attempt for a single program year.
type PaymentTransaction struct {
	PaymentID        uuid.UUID     `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`
	PaymentProductID string        `gorm:"column:payment_product_id;type:varchar(100);not null;uniqueIndex" json:"payment_product_id"`
	PaymentUserID    uuid.UUID     `gorm:"column:payment_user_id;type:uuid;not null;index:idx_payment_user_year" json:"payment_user_id"`
	PaymentYear      string        `gorm:"column:payment_year;type:varchar(20);not null;index:idx_payment_user_year" json:"payment_year"`
	PaymentAmount    int64         `gorm:"column:payment_amount;not null;check:payment_amount > 0" json:"payment_amount"`
	PaymentStatus    PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null;default:'PENDING';index" json:"payment_status"`

	// Gateway info
	PaymentGatewayProvider  string         `gorm:"column:payment_gateway_provider;type:varchar(30);not null;default:'midtrans'" json:"payment_gateway_provider"`
	PaymentGatewayStatus    *string        `gorm:"column:payment_gateway_status;type:varchar(50)" json:"payment_gateway_status,omitempty"`
	PaymentGatewayReference *string        `gorm:"column:payment_gateway_reference;type:varchar(100)" json:"payment_gateway_reference,omitempty"`
	PaymentRedirectURL      *string        `gorm:"column:payment_redirect_url" json:"payment_redirect_url,omitempty"`
	PaymentGatewayPayload   datatypes.JSON `gorm:"column:payment_gateway_payload;type:jsonb" json:"payment_gateway_payload,omitempty"`
	PaymentReconciledAt     *time.Time     `gorm:"column:payment_reconciled_at" json:"payment_reconciled_at,omitempty"`
	PaymentNote             *string        `gorm:"column:payment_note" json:"payment_note,omitempty"`

	CreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	UpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"-"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }
