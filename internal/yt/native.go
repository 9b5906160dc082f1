package yt

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/kkdai/youtube/v2"
)

// Native reads the watch page with kkdai/youtube, without spawning yt-dlp.
type Native struct {
	client *youtube.Client
}

func NewNative(httpClient *http.Client) *Native {
	return &Native{client: &youtube.Client{HTTPClient: httpClient}}
}

func (n *Native) Name() string { return "native" }

func (n *Native) Lookup(ctx context.Context, _, url string) (VideoReference, error) {
	video, err := n.client.GetVideoContext(ctx, url)
	if err != nil {
		return VideoReference{}, errors.Wrap(err, "kkdai get video")
	}
	thumbs := Thumbnails{Kind: ThumbnailObjectList}
	for _, t := range video.Thumbnails {
		thumbs.Images = append(thumbs.Images, ThumbnailImage{
			URL:    t.URL,
			Width:  int(t.Width),
			Height: int(t.Height),
		})
	}
	return VideoReference{VideoID: video.ID, Title: video.Title, Thumbnail: thumbs.Best()}, nil
}
