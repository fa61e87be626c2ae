package retry

import "errors"

// ErrCircuitOpen is returned when a persistence call is rejected because
// its breaker is open.
var ErrCircuitOpen = errors.New("persistence circuit open")
