package content

import (
	"errors"
	"fmt"
)

var (
	// ErrPlaceholder is returned when content is requested for a built-in
	// placeholder item. Placeholders have a summary but no body.
	ErrPlaceholder = errors.New("content: not available for placeholder items")
	// ErrNotConfigured is returned when no workspace credentials are set.
	ErrNotConfigured = errors.New("content: workspace not configured")
	// ErrInvalidID is returned for ids that are not workspace page ids.
	ErrInvalidID = errors.New("content: invalid page id")
)

// ResolveError reports that a page body could not be resolved.
type ResolveError struct {
	ID  string
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("content: resolve %s: %v", e.ID, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
