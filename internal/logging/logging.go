package logging

import (
	"log"
	"os"
)

// New returns the process logger. It writes to stderr so probe results on
// stdout stay machine-parseable.
func New() *log.Logger {
	return log.New(os.Stderr, "netprobe ", log.LstdFlags|log.LUTC)
}
