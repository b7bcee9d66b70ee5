package types

import (
	"time"
)

// ClientConfig contains configuration for an LSP client
type ClientConfig struct {
	Command               string
	Args                  []string
	WorkingDir            string
	Address               string // TCP host:port; empty means stdio
	InitializationOptions interface{}
	RequestTimeout        time.Duration
}
