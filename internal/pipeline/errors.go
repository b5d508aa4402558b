package pipeline

import "fmt"

// NoDataError reports that a season produced zero play records or zero
// qualified passers. It is surfaced to callers unmodified and never retried;
// presentation layers translate it into an empty chart or placeholder.
type NoDataError struct {
	Season int
	Reason string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data for season %d: %s", e.Season, e.Reason)
}

// SourceError wraps a failure from the ingestion source. The underlying
// error is passed through without interpretation.
type SourceError struct {
	Season int
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("play source failed for season %d: %v", e.Season, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
