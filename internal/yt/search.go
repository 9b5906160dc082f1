package yt

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
)

type searchCandidate struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Thumbnails Thumbnails `json:"thumbnails"`
	Thumbnail  Thumbnails `json:"thumbnail"`
}

// Search asks a keyed search helper for the video id and takes the first
// candidate. It is the fast path: one small HTTP request, no page scraping.
type Search struct {
	endpoint string
	client   *http.Client
}

func NewSearch(endpoint string, client *http.Client) *Search {
	if client == nil {
		client = http.DefaultClient
	}
	return &Search{endpoint: endpoint, client: client}
}

func (s *Search) Name() string { return "search" }

func (s *Search) Lookup(ctx context.Context, id, _ string) (VideoReference, error) {
	if s.endpoint == "" {
		return VideoReference{}, errors.New("search endpoint is not configured")
	}
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return VideoReference{}, errors.Wrap(err, "parse search endpoint")
	}
	q := u.Query()
	q.Set("q", id)
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return VideoReference{}, errors.Wrap(err, "build search request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return VideoReference{}, errors.Wrap(err, "search request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return VideoReference{}, errors.Wrapf(ErrBadStatus, "search returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return VideoReference{}, errors.Wrap(err, "read search response")
	}

	candidates, err := decodeCandidates(body)
	if err != nil {
		return VideoReference{}, err
	}
	if len(candidates) == 0 || candidates[0].Title == "" {
		return VideoReference{}, errNoResult
	}
	first := candidates[0]
	thumb := first.Thumbnails.Best()
	if thumb == "" {
		thumb = first.Thumbnail.Best()
	}
	videoID := first.ID
	if videoID == "" {
		videoID = id
	}
	return VideoReference{VideoID: videoID, Title: first.Title, Thumbnail: thumb}, nil
}

// decodeCandidates accepts both a bare list and {"result": [...]}.
func decodeCandidates(body []byte) ([]searchCandidate, error) {
	body = bytes.TrimSpace(body)
	var candidates []searchCandidate
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &candidates); err != nil {
			return nil, errors.Wrap(err, "decode search list")
		}
		return candidates, nil
	}
	var wrapped struct {
		Result []searchCandidate `json:"result"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, errors.Wrap(err, "decode search result")
	}
	return wrapped.Result, nil
}
