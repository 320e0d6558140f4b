package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/leg100/tfmetrics/internal"
	"github.com/stretchr/testify/assert"
)

func TestPrintError(t *testing.T) {
	color.NoColor = true

	t.Run("config error", func(t *testing.T) {
		var buf bytes.Buffer
		PrintError(&buf, &internal.ConfigError{Err: internal.ErrRequiredOrg})
		assert.Equal(t, "Error: configuration error: organization is required\nRun 'tfmetrics --help' for usage.\n", buf.String())
	})

	t.Run("other error", func(t *testing.T) {
		var buf bytes.Buffer
		PrintError(&buf, errors.New("writing csv report: disk full"))
		assert.Equal(t, "Error: writing csv report: disk full\n", buf.String())
	})
}
