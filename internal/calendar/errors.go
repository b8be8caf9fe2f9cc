package calendar

import (
	"fmt"
)

// FetchError indicates a calendar feed could not be retrieved: a network
// failure, a non-2xx response, or an empty body.
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching calendar %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// FormatError indicates malformed iCal date text. It carries the offending
// raw value.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid iCal date %q", e.Value)
}

// PersistenceError indicates a single create, update or delete against the
// store failed while applying a reconciliation.
type PersistenceError struct {
	Op         string
	ExternalID string
	Cause      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s changeover for booking %s: %v", e.Op, e.ExternalID, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// SyncFailure is a top-level property sync failure. Its message is recorded
// on the property as calendar_sync_error.
type SyncFailure struct {
	PropertyID string
	Cause      error
}

func (e *SyncFailure) Error() string {
	return fmt.Sprintf("syncing property %s: %v", e.PropertyID, e.Cause)
}

func (e *SyncFailure) Unwrap() error { return e.Cause }
