package utils

import (
	"errors"
	"fmt"
)

// ErrorKind groups error codes by how a caller is expected to react.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindConflict       ErrorKind = "conflict"
	KindResource       ErrorKind = "resource"
	KindInfrastructure ErrorKind = "infrastructure"
	KindNotFound       ErrorKind = "not_found"
	KindUnauthorized   ErrorKind = "unauthorized"
)

// AppError is the error type every engine operation returns for domain failures.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Code so sentinel values below work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels, compared by code.
var (
	ErrInvalidSelection      = &AppError{Kind: KindValidation, Code: "InvalidSelection"}
	ErrInvalidSlot           = &AppError{Kind: KindValidation, Code: "InvalidSlot"}
	ErrNoPriceForSelection   = &AppError{Kind: KindValidation, Code: "NoPriceForSelection"}
	ErrInvalidAddOn          = &AppError{Kind: KindValidation, Code: "InvalidAddOn"}
	ErrNotEditable           = &AppError{Kind: KindValidation, Code: "NotEditable"}
	ErrPromoNotFound         = &AppError{Kind: KindResource, Code: "PromoNotFound"}
	ErrPromoInactive         = &AppError{Kind: KindResource, Code: "PromoInactive"}
	ErrPromoExpired          = &AppError{Kind: KindResource, Code: "PromoExpired"}
	ErrPromoExhausted        = &AppError{Kind: KindResource, Code: "PromoExhausted"}
	ErrPromoNotApplicable    = &AppError{Kind: KindResource, Code: "PromoNotApplicable"}
	ErrReferralUnavailable   = &AppError{Kind: KindResource, Code: "ReferralUnavailable"}
	ErrSlotNoLongerAvailable = &AppError{Kind: KindConflict, Code: "SlotNoLongerAvailable"}
	ErrIllegalTransition     = &AppError{Kind: KindConflict, Code: "IllegalTransition"}
	ErrTerminalState         = &AppError{Kind: KindConflict, Code: "TerminalState"}
	ErrConcurrentUpdate      = &AppError{Kind: KindConflict, Code: "ConcurrentUpdate"}
	ErrAlreadyExists         = &AppError{Kind: KindConflict, Code: "AlreadyExists"}
	ErrNotFound              = &AppError{Kind: KindNotFound, Code: "NotFound"}
	ErrBookingNotFound       = &AppError{Kind: KindNotFound, Code: "BookingNotFound"}
	ErrForbidden             = &AppError{Kind: KindUnauthorized, Code: "Forbidden"}
	ErrStoreUnavailable      = &AppError{Kind: KindInfrastructure, Code: "StoreUnavailable"}
)

// NewError builds an AppError carrying the kind and code of a sentinel.
func NewError(sentinel *AppError, format string, args ...any) *AppError {
	return &AppError{Kind: sentinel.Kind, Code: sentinel.Code, Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps a persistence failure so callers can apply their own retry policy.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return &AppError{Kind: ErrStoreUnavailable.Kind, Code: ErrStoreUnavailable.Code, Message: op, Err: err}
}

// KindOf reports the kind of err, defaulting to infrastructure for unknown errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInfrastructure
}
