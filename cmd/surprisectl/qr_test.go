package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCommand_Terminal(t *testing.T) {
	var out bytes.Buffer
	cmd := qrCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"3f2a8b1c-9d4e-4f6a-8b7c-1d2e3f4a5b6c", "--base-url", "https://surpresa.test/"})

	require.NoError(t, cmd.Execute())
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "https://surpresa.test/s/3f2a8b1c-9d4e-4f6a-8b7c-1d2e3f4a5b6c", lines[0])
	assert.Greater(t, len(lines), 10)
}

func TestQRCommand_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	cmd := qrCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"3f2a8b1c-9d4e-4f6a-8b7c-1d2e3f4a5b6c", "--base-url", "https://surpresa.test", "--png", path})

	require.NoError(t, cmd.Execute())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestQRCommand_RejectsBadID(t *testing.T) {
	cmd := qrCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"not-a-uuid", "--base-url", "https://surpresa.test"})

	assert.Error(t, cmd.Execute())
}
