package logging

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseGatesDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})

	SetVerbose(false)
	Debug().Msg("hidden")
	Info().Str("file", "a.png").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "file=a.png")

	buf.Reset()
	SetVerbose(true)
	Debug().Msg("now visible")
	Error().Err(errors.New("boom")).Msg("failed")
	assert.Contains(t, buf.String(), "now visible")
	assert.Contains(t, buf.String(), "boom")
}
