package yt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThumbnails(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind ThumbnailKind
		best string
	}{
		{"string", `"https://i.ytimg.com/a.jpg"`, ThumbnailString, "https://i.ytimg.com/a.jpg"},
		{"empty string", `""`, ThumbnailNone, ""},
		{"string list", `["https://x/1.jpg","https://x/2.jpg"]`, ThumbnailStringList, "https://x/2.jpg"},
		{
			"object list",
			`[{"url":"https://x/big.jpg","width":1280,"height":720},{"url":"https://x/small.jpg","width":120,"height":90}]`,
			ThumbnailObjectList, "https://x/big.jpg",
		},
		{"object list without sizes", `[{"url":"https://x/1.jpg"},{"url":"https://x/2.jpg"}]`, ThumbnailObjectList, "https://x/2.jpg"},
		{"single object", `{"url":"https://x/o.jpg","width":"wide"}`, ThumbnailObject, "https://x/o.jpg"},
		{"null", `null`, ThumbnailNone, ""},
		{"number", `42`, ThumbnailNone, ""},
		{"empty list", `[]`, ThumbnailNone, ""},
		{"mixed junk in list", `[1, null, "https://x/ok.jpg"]`, ThumbnailStringList, "https://x/ok.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseThumbnails([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.best, got.Best())
		})
	}
}

func TestParseThumbnailsBroken(t *testing.T) {
	_, err := ParseThumbnails([]byte(`[{"url":`))
	require.Error(t, err)
}

func TestThumbnailsInStruct(t *testing.T) {
	var v struct {
		Thumbnails Thumbnails `json:"thumbnails"`
		Thumbnail  Thumbnails `json:"thumbnail"`
	}
	err := json.Unmarshal([]byte(`{"thumbnails":[{"url":"https://x/1.jpg","width":10,"height":10}],"thumbnail":"https://x/t.jpg"}`), &v)
	require.NoError(t, err)
	assert.Equal(t, "https://x/1.jpg", v.Thumbnails.Best())
	assert.Equal(t, ThumbnailString, v.Thumbnail.Kind)
}
