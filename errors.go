package dbtour

import "errors"

var (
	ErrUnknownTour    = errors.New("unknown tour")
	ErrNoCommand      = errors.New("command required")
	ErrUnknownCommand = errors.New("unknown command")
)
