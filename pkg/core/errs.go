package core

import "errors"

var (
	ErrNoSeries          = errors.New("dataset has no series columns")
	ErrInvalidTime       = errors.New("invalid time value")
	ErrUnknownConverter  = errors.New("unknown row converter")
	ErrUnknownChart      = errors.New("unknown chart")
	ErrUnknownControl    = errors.New("unknown control")
	ErrEmptySource       = errors.New("empty source")
	ErrUnexpectedStatus  = errors.New("unexpected HTTP status")
	ErrDuplicateChart    = errors.New("duplicate chart name")
	ErrDuplicateControl  = errors.New("duplicate control id")
	ErrInvalidDimensions = errors.New("invalid chart dimensions")
)
