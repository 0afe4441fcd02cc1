package timing

import "errors"

// Sentinel errors for the timing package. Check with errors.Is.
var (
	ErrSchedulerVersion = errors.New("timing: unsupported scheduler version")
	ErrNegativeValue    = errors.New("timing: negative value in round-away")
)
