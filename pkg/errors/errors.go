package errors

import (
	"fmt"
)

// Kind is the closed set of failure categories the bridge can report.
// Every error that reaches the wire is one of these; anything unexpected
// is rehomed as KindSystem before a response is built.
type Kind string

const (
	KindValidation     Kind = "validation_error"
	KindCapacity       Kind = "capacity_error"
	KindAvailability   Kind = "availability_error"
	KindState          Kind = "state_error"
	KindConfirmation   Kind = "confirmation_error"
	KindCleanup        Kind = "cleanup_error"
	KindAuthentication Kind = "authentication_error"
	KindReservation    Kind = "reservation_error"
	KindNotFound       Kind = "not_found_error"
	KindSystem         Kind = "system_error"
	KindUnknown        Kind = "unknown_error"
)

type AppError struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// OTACode maps the kind to the (ErrorType, ErrorCode) attribute pair used
// in OTA_HotelResNotifRS error elements. Kinds without a dedicated pair
// share the generic system mapping.
func (e *AppError) OTACode() (errType string, errCode string) {
	switch e.Kind {
	case KindValidation:
		return "4", "400"
	case KindCapacity:
		return "6", "392"
	case KindSystem:
		return "1", "500"
	case KindReservation:
		return "3", "300"
	case KindConfirmation:
		return "3", "301"
	case KindAuthentication:
		return "6", "497"
	default:
		return "1", "500"
	}
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func Capacity(message string) *AppError {
	return &AppError{Kind: KindCapacity, Message: message}
}

func Availability(message string) *AppError {
	return &AppError{Kind: KindAvailability, Message: message}
}

func State(message string) *AppError {
	return &AppError{Kind: KindState, Message: message}
}

func Confirmation(message string, err error) *AppError {
	return &AppError{Kind: KindConfirmation, Message: message, Err: err}
}

func Cleanup(message string, err error) *AppError {
	return &AppError{Kind: KindCleanup, Message: message, Err: err}
}

func Authentication(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

func Reservation(message string, err error) *AppError {
	return &AppError{Kind: KindReservation, Message: message, Err: err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: map[string]any{"resource": resource, "id": id},
	}
}

func System(message string, err error) *AppError {
	return &AppError{Kind: KindSystem, Message: message, Err: err}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError returns err as an *AppError, rehoming anything else as a
// system error so the response builder always has a kind to map.
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return System("An unexpected error occurred", err)
}

// KindOf reports the kind of err, or KindUnknown for non-AppErrors.
func KindOf(err error) Kind {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Kind
	}
	return KindUnknown
}
