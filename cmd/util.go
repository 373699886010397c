package cmd

import (
	"fmt"
	"os"
	"strings"
)

// stderrPrintLnf formats the message to stderr, terminated by a newline.
func stderrPrintLnf(format string, args ...interface{}) error {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	_, err := fmt.Fprintf(os.Stderr, format, args...)
	return err
}
