package async

import "errors"

// ErrTimeout is returned by AwaitWithTimeout when the future has not
// completed within the deadline.
var ErrTimeout = errors.New("async: timed out waiting for future completion")
