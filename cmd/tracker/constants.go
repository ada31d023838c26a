package main

import "time"

// Default limits for CLI commands.
const (
	DefaultAuditLimit = 20
	DefaultPattern    = "*"
	DefaultDebounce   = 500 * time.Millisecond
)

// Valid diff output formats.
var validFormats = []string{"text", "json"}
