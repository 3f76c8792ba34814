package config

import (
	"fmt"
	"io"
	"os"
)

// exit is swapped in tests that must observe the exit code in-process.
var exit = os.Exit

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	ExitfTo(os.Stderr, format, args...)
}

// ExitfTo writes a formatted error message to w and exits with code 1.
func ExitfTo(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format+"\n", args...)
	}
	exit(1)
}
