// Package mcp provides an MCP (Model Context Protocol) server adapter for regdash.
// It lets AI assistants query the regulation dashboard as tools and resources.
package mcp

import "errors"

// ErrMissingDatasetService is returned when the dataset service is not provided.
var ErrMissingDatasetService = errors.New("mcp: dataset service is required")
