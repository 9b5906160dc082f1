package yt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	oldFile := filepath.Join(dir, "old.mp4")
	freshFile := filepath.Join(dir, "fresh.mp3")
	require.NoError(t, os.WriteFile(oldFile, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(freshFile, []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o750))
	past := now.Add(-time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	n, err := Sweep(dir, 30*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, freshFile)
	assert.DirExists(t, filepath.Join(dir, "sub"))
}

func TestSweep_MissingDir(t *testing.T) {
	n, err := Sweep(filepath.Join(t.TempDir(), "nope"), time.Minute, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
