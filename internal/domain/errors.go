package domain

import "errors"

// Error kinds from the taxonomy: NoData halts the whole report, the rest
// are contained to a single store's row or retried by the store.
var (
	ErrNoData       = errors.New("no poll data available")
	ErrParse        = errors.New("parse error")
	ErrUnknownZone  = errors.New("unknown timezone")
	ErrTimeout      = errors.New("store processing timed out")
	ErrTransient    = errors.New("transient data access failure")
	ErrReportNotFound = errors.New("report not found")
)
