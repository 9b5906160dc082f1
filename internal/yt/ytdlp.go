package yt

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"time"

	"github.com/go-faster/errors"
)

type ytdlpInfo struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	FullTitle  string     `json:"fulltitle"`
	Thumbnail  Thumbnails `json:"thumbnail"`
	Thumbnails Thumbnails `json:"thumbnails"`
}

// Ytdlp is the slow but thorough source: a full yt-dlp extraction without
// downloading anything.
type Ytdlp struct {
	binary  string
	cookies string
	timeout time.Duration
}

func NewYtdlp(binary, cookies string) *Ytdlp {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Ytdlp{binary: binary, cookies: cookies, timeout: 2 * time.Minute}
}

func (y *Ytdlp) Name() string { return "ytdlp" }

func (y *Ytdlp) args(url string) []string {
	args := []string{"--dump-json", "--no-download", "--no-playlist", "--no-warnings"}
	if y.cookies != "" {
		if st, err := os.Stat(y.cookies); err == nil && !st.IsDir() {
			args = append(args, "--cookies", y.cookies)
		}
	}
	return append(args, url)
}

func (y *Ytdlp) Lookup(ctx context.Context, _, url string) (VideoReference, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, y.binary, y.args(url)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if stderr.Len() > 0 {
			return VideoReference{}, errors.Wrapf(err, "yt-dlp: %s", stderr.String())
		}
		return VideoReference{}, errors.Wrap(err, "yt-dlp")
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return VideoReference{}, errors.Wrap(err, "parse yt-dlp json")
	}
	title := info.Title
	if title == "" {
		title = info.FullTitle
	}
	thumb := info.Thumbnail.Best()
	if thumb == "" {
		thumb = info.Thumbnails.Best()
	}
	return VideoReference{VideoID: info.ID, Title: title, Thumbnail: thumb}, nil
}
