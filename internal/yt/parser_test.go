package yt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractYoutubeURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"watch without scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"short link", "look https://youtu.be/dQw4w9WgXcQ?si=abc", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"v path", "https://www.youtube.com/v/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"any path with v", "https://www.youtube.com/attribution_link?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"shorts", "https://www.youtube.com/shorts/abcdefghijk", "https://www.youtube.com/shorts/abcdefghijk", true},
		{"shorts with list", "https://www.youtube.com/shorts/abcdefghijk?list=PL1", "https://www.youtube.com/shorts/abcdefghijk", true},
		{"playlist", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123", "", false},
		{"short link playlist", "https://youtu.be/dQw4w9WgXcQ?list=PL123", "", false},
		{"playlist then single on next line", "https://youtu.be/dQw4w9WgXcQ?list=PL1\nhttps://youtu.be/abcdefghijk", "https://www.youtube.com/watch?v=abcdefghijk", true},
		{"no link", "hello there", "", false},
		{"other site", "https://vimeo.com/123456", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractYoutubeURL(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsYoutubeLink(t *testing.T) {
	assert.True(t, IsYoutubeLink("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsYoutubeLink("https://youtu.be/dQw4w9WgXcQ"))
	assert.True(t, IsYoutubeLink("https://www.youtube.com/shorts/abcdefghijk?list=PL1"))
	assert.False(t, IsYoutubeLink("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL1"))
	assert.False(t, IsYoutubeLink("see https://youtu.be/dQw4w9WgXcQ"), "must be anchored at the start")
	assert.False(t, IsYoutubeLink("https://youtu.be/short"))
}

func TestNormalizeVideoID(t *testing.T) {
	tests := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":          "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42":     "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/abcdefghijk":           "abcdefghijk",
		"https://youtu.be/dQw4w9WgXcQ?si=tracking":             "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/abcdefghijk?si=x&ab=1": "abcdefghijk",
		"  dQw4w9WgXcQ  ":                                      "dQw4w9WgXcQ",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeVideoID(in), in)
	}
}

func TestCanonicalURLs(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", WatchURL("abc"))
	assert.Equal(t, "https://www.youtube.com/shorts/abc", ShortsURL("abc"))
	assert.True(t, IsUrl(WatchURL("abc")))
	assert.False(t, IsUrl("youtube.com/watch"))
}
