package mqtt

import "errors"

// ErrPublishTimeout is returned when the broker does not confirm delivery
// before the timeout.
var ErrPublishTimeout = errors.New("timeout publishing plan")
