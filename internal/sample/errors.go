package sample

import "errors"

var (
	ErrParseFailure     = errors.New("failed to parse log line")
	ErrMalformedLine    = errors.New("line has no timestamp and counter fields")
	ErrInvalidTimestamp = errors.New("timestamp is not a valid date-time")
	ErrMissingField     = errors.New("required counter field missing")
	ErrInvalidCounter   = errors.New("counter is not an unsigned integer")
	ErrReadFailed       = errors.New("failed to read log")
)
