package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrRoomNotFound = errors.New("room not found")

	ErrRoomTypeNotFound = errors.New("room type not found")
)
