package errors

import "errors"

var (
	ErrKeyNotFound = errors.New("api key not found")

	ErrKeyInactive = errors.New("api key is inactive")
)
