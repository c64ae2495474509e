package app

import "errors"

// ErrHistoryDisabled is returned by history queries when no store is open.
var ErrHistoryDisabled = errors.New("run history is disabled")

// ErrInput is returned when a widgets or options file cannot be used.
var ErrInput = errors.New("invalid input file")
