package ask

import "errors"

// Error definitions for the ask view.
var (
	// ErrNoAskService indicates that no ask service was provided.
	ErrNoAskService = errors.New("retrieval is not configured")
)
