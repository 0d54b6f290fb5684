package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := New(Options{Output: &buf})
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	l.Debug("hidden")
	l.WithField("post", "kql").Info("rendered")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "post=kql")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	l.Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"level", Options{Level: "loud"}},
		{"format", Options{Format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestNew_Dir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	l, closer, err := New(Options{Output: &buf, Dir: dir})
	require.NoError(t, err)

	l.Warn("disk")
	require.NoError(t, closer())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk")
}
