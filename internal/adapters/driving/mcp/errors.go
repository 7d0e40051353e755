// Package mcp provides an MCP (Model Context Protocol) server adapter for sentorder.
// It lets AI assistants reorder and score texts and browse reorder history.
package mcp

import "errors"

// ErrMissingReorderService is returned when the reorder service is not provided.
var ErrMissingReorderService = errors.New("mcp: reorder service is required")
