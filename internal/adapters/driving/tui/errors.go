package tui

import "errors"

// ErrMissingReorderService is returned when the reorder service is not provided.
var ErrMissingReorderService = errors.New("tui: reorder service is required")

// ErrEmptyText is returned when there is no text to reorder.
var ErrEmptyText = errors.New("tui: text is empty")
