package yt

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths_FilePath(t *testing.T) {
	p := NewPaths("repository/Youtube")
	url := WatchURL("dQw4w9WgXcQ")

	a := p.FilePath(url, "mp4", "mp4")
	b := p.FilePath(url, "mp4", "mp4")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, p.Cached())

	assert.Equal(t, "repository/Youtube", filepath.Dir(a))
	name := filepath.Base(a)
	assert.True(t, strings.HasSuffix(name, ".mp4"))
	assert.Len(t, strings.TrimSuffix(name, ".mp4"), 128, "hex of a 512 bit digest")

	mp3 := p.FilePath(url, "mp3", "mp3")
	assert.NotEqual(t, a, mp3)
	assert.True(t, strings.HasSuffix(mp3, ".mp3"))
	assert.NotEqual(t, a, p.FilePath(WatchURL("abcdefghijk"), "mp4", "mp4"))

	// same input, fresh cache: same answer
	assert.Equal(t, a, NewPaths("repository/Youtube").FilePath(url, "mp4", "mp4"))
}

func TestPaths_CacheBounded(t *testing.T) {
	p := NewPaths(t.TempDir())
	for i := 0; i < pathCacheSize+10; i++ {
		p.FilePath(WatchURL(strings.Repeat("x", i)), "mp4", "mp4")
	}
	assert.Equal(t, pathCacheSize, p.Cached())
}
