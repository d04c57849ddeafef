package model

/* ===================== Enums (string) ===================== */

type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "PENDING"
	PaymentStatusComplete    PaymentStatus = "COMPLETE"
	PaymentStatusFailed      PaymentStatus = "FAILED"
	PaymentStatusRefunded    PaymentStatus = "REFUNDED"
	PaymentStatusNeedsReview PaymentStatus = "NEEDS_REVIEW"
)

const (
	GatewayProviderMidtrans = "midtrans"
	GatewayProviderManual   = "manual"
)

// IsTerminal reports whether a transaction in this status may no longer change.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusComplete, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusNeedsReview:
		return true
	}
	return false
}
