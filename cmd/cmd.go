/*
Package cmd provides CLI functionality.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/leg100/tfmetrics/internal"
)

// PrintError writes err to w, suggesting --help where the error is down to
// misconfiguration.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", color.HiRedString("Error:"), err.Error())

	var cfgErr *internal.ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(w, "Run 'tfmetrics --help' for usage.")
	}
}
