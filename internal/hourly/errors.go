package hourly

import "errors"

var (
	ErrDecodeFailed = errors.New("failed to decode hourly aggregate JSON")
	ErrReadFailed   = errors.New("failed to read hourly aggregate file")
)
