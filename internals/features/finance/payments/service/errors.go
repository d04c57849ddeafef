package service

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindConfiguration ErrorKind = "CONFIGURATION_ERROR"
	KindValidation    ErrorKind = "VALIDATION_ERROR"
	KindAlreadyPaid   ErrorKind = "ALREADY_PAID"
	KindOverpayment   ErrorKind = "OVERPAYMENT"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindGateway       ErrorKind = "GATEWAY_ERROR"
	KindConflict      ErrorKind = "CONFLICT"
)

// Error is the typed failure returned by every payment operation.
// Remaining carries the maximum payable amount for ALREADY_PAID and OVERPAYMENT.
type Error struct {
	Kind      ErrorKind
	Message   string
	Remaining *int64
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func configurationError(msg string) *Error { return newError(KindConfiguration, "%s", msg) }

func validationError(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func notFoundError(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func alreadyPaidError(year string, fee, paid int64) *Error {
	e := newError(KindAlreadyPaid, "fee for %s is already paid (%d of %d)", year, paid, fee)
	zero := int64(0)
	e.Remaining = &zero
	return e
}

func overpaymentError(year string, requested, remaining int64) *Error {
	e := newError(KindOverpayment, "amount %d exceeds remaining balance for %s; maximum payable is %d", requested, year, remaining)
	e.Remaining = &remaining
	return e
}

func gatewayError(op string, err error) *Error {
	return &Error{Kind: KindGateway, Message: "payment gateway " + op + " failed", Err: err}
}

func conflictError(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

// KindOf returns the kind of a payment error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
