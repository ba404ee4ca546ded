package data

import "errors"

var (
	ErrNoValue = errors.New("no value stored for key")
)
