package crawler

import (
	"errors"
	"fmt"
)

// Pipeline-level failures. Any of these aborts the run before an output
// file is written; per-page fetch and conversion failures never do.
var (
	// ErrEntryUnavailable means the entry page could not be retrieved.
	ErrEntryUnavailable = errors.New("cannot retrieve entry page")
	// ErrNoContainer means the selector matched nothing on the entry page.
	ErrNoContainer = errors.New("no link container found")
	// ErrNoLinks means the container held zero usable links.
	ErrNoLinks = errors.New("no links discovered")
)

// PersistError reports a failed write of the assembled document.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
