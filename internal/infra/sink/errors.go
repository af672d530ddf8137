package sink

import "errors"

var (
	ErrNilNotification = errors.New("notification must not be nil")
)
