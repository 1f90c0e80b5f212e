package source

import "errors"

var (
	// ErrAuthentication means the remote credential is invalid or lacks
	// the required read-only scopes. The load fails until configuration
	// is fixed.
	ErrAuthentication = errors.New("source: authentication failed")

	// ErrNotFound means the workbook or tab does not exist.
	ErrNotFound = errors.New("source: workbook or tab not found")

	// ErrTransient covers network and service hiccups. Safe to retry,
	// but the core never retries on its own.
	ErrTransient = errors.New("source: transient fetch error")

	// ErrUnparseable means no encoding/delimiter combination produced a
	// non-empty table from an uploaded file.
	ErrUnparseable = errors.New("source: unparseable input")
)
