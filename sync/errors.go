// ABOUTME: Error taxonomy for Airtable synchronization
// ABOUTME: Sentinel errors for incomplete config and connection failures, plus partial sync reporting
package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationIncomplete means a required Airtable setting is empty.
	ErrConfigurationIncomplete = errors.New("airtable configuration incomplete")

	// ErrConnectionFailed covers transport errors and non-success responses.
	ErrConnectionFailed = errors.New("airtable connection failed")

	// ErrPartialSync matches a *PartialSyncError.
	ErrPartialSync = errors.New("partial sync failure")
)

// PartialSyncError reports a sync that stopped after some records were written.
// Records written before the failure are not rolled back.
type PartialSyncError struct {
	Succeeded int
	Creator   string
	Err       error
}

func (e *PartialSyncError) Error() string {
	return fmt.Sprintf("sync stopped at %q after %d records were written: %v", e.Creator, e.Succeeded, e.Err)
}

func (e *PartialSyncError) Unwrap() error {
	return e.Err
}

func (e *PartialSyncError) Is(target error) bool {
	return target == ErrPartialSync
}

// APIError is a non-success response from Airtable.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Type != "" && e.Message != "":
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Type, e.Message, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	case e.Type != "":
		return fmt.Sprintf("%s (HTTP %d)", e.Type, e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return ErrConnectionFailed
}
