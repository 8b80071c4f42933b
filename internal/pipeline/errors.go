package pipeline

import "errors"

var (
	ErrMissingInput   = errors.New("required input file not found")
	ErrLoadFailed     = errors.New("failed to load input")
	ErrWriteFailed    = errors.New("failed to write output")
	ErrPublishFailed  = errors.New("failed to publish reports")
	ErrInvalidDate    = errors.New("date must be formatted as YYYY-MM-DD")
	ErrMetricsFailed  = errors.New("failed to write metrics textfile")
	ErrPublisherSetup = errors.New("failed to create publisher")
)
