package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersFormatMessages(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Use(zap.New(core))
	t.Cleanup(func() { Init(false, "") })

	Info("session %s restored", "abc")
	Warn("%d letters lost", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "session abc restored", entries[0].Message)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "2 letters lost", entries[1].Message)
}

func TestInitWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quest.log")
	Init(true, path)
	t.Cleanup(func() { Init(false, "") })

	Info("hello %s", "file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello file"`)
}
