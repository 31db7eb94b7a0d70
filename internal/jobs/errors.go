package jobs

import "errors"

// ErrJobActive is returned when starting a job while one is already
// running or paused.
var ErrJobActive = errors.New("job already running")

// ErrNothingToExport is returned by Export before any chunk has completed.
var ErrNothingToExport = errors.New("nothing to export")
