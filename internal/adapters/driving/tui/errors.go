package tui

import "errors"

// ErrNoReviewData is returned when the app has neither an analysis
// result nor a runs service to load one from.
var ErrNoReviewData = errors.New("tui: an analysis result or a runs service is required")
