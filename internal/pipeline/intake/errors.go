package intake

import "errors"

// ErrStopped is returned by Process once shutdown has begun.
var ErrStopped = errors.New("intake stopped")
