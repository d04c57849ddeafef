package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"feeportal_backend/internals/features/finance/payments/model"
)

/* ===================== Requests ===================== */

// InitiatePaymentRequest is checked by the payment service so its rejection order holds.
type InitiatePaymentRequest struct {
	Amount    int64  `json:"amount"`
	ProductID string `json:"product_id"`
	Year      string `json:"year"`
}

// Normalize trims the year label only; a padded product_id is rejected by the service.
func (r *InitiatePaymentRequest) Normalize() {
	r.Year = strings.TrimSpace(r.Year)
}

type OverrideStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=COMPLETE FAILED REFUNDED"`
	Note   string `json:"note" validate:"max=500"`
}

type ListTransactionQuery struct {
	UserID *uuid.UUID `query:"user_id"`
	Status string     `query:"status"`
	Year   string     `query:"year"`
}

// StatusPtr returns the parsed status filter; ok is false for an unknown value.
func (q ListTransactionQuery) StatusPtr() (*model.PaymentStatus, bool) {
	s := strings.ToUpper(strings.TrimSpace(q.Status))
	if s == "" {
		return nil, true
	}
	st := model.PaymentStatus(s)
	if !st.IsValid() {
		return nil, false
	}
	return &st, true
}

// MidtransNotification is the HTTP notification body Midtrans posts to the webhook.
type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

/* ===================== Responses ===================== */

type TransactionResponse struct {
	PaymentID               uuid.UUID           `json:"payment_id"`
	PaymentProductID        string              `json:"payment_product_id"`
	PaymentUserID           uuid.UUID           `json:"payment_user_id"`
	PaymentYear             string              `json:"payment_year"`
	PaymentAmount           int64               `json:"payment_amount"`
	PaymentStatus           model.PaymentStatus `json:"payment_status"`
	PaymentGatewayProvider  string              `json:"payment_gateway_provider"`
	PaymentGatewayStatus    *string             `json:"payment_gateway_status,omitempty"`
	PaymentGatewayReference *string             `json:"payment_gateway_reference,omitempty"`
	PaymentRedirectURL      *string             `json:"payment_redirect_url,omitempty"`
	PaymentReconciledAt     *time.Time          `json:"payment_reconciled_at,omitempty"`
	PaymentNote             *string             `json:"payment_note,omitempty"`
	PaymentCreatedAt        time.Time           `json:"payment_created_at"`
	PaymentUpdatedAt        time.Time           `json:"payment_updated_at"`
}

func ToTransactionResponse(m model.PaymentTransaction) TransactionResponse {
	return TransactionResponse{
		PaymentID:               m.PaymentID,
		PaymentProductID:        m.PaymentProductID,
		PaymentUserID:           m.PaymentUserID,
		PaymentYear:             m.PaymentYear,
		PaymentAmount:           m.PaymentAmount,
		PaymentStatus:           m.PaymentStatus,
		PaymentGatewayProvider:  m.PaymentGatewayProvider,
		PaymentGatewayStatus:    m.PaymentGatewayStatus,
		PaymentGatewayReference: m.PaymentGatewayReference,
		PaymentRedirectURL:      m.PaymentRedirectURL,
		PaymentReconciledAt:     m.PaymentReconciledAt,
		PaymentNote:             m.PaymentNote,
		PaymentCreatedAt:        m.CreatedAt,
		PaymentUpdatedAt:        m.UpdatedAt,
	}
}

func ToTransactionResponses(rows []model.PaymentTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToTransactionResponse(r))
	}
	return out
}
