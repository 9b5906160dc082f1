package yt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var (
	ErrTimeout         = errors.New("timed out")
	ErrBadStatus       = errors.New("unexpected HTTP status")
	ErrInvalidResponse = errors.New("invalid resolver response")
	ErrTooLarge        = errors.New("file is too large")
	ErrTruncated       = errors.New("download ended early")
)

// Resolved is a direct, time-limited media link returned by the resolver API.
type Resolved struct {
	DownloadURL string
	Title       string
}

type resolverResponse struct {
	Status      string `json:"status"`
	DownloadURL string `json:"download_url"`
	Title       string `json:"title"`
}

// Resolver talks to the remote worker that turns a video id and a format
// into a direct download URL.
type Resolver struct {
	base    string
	client  *http.Client
	timeout time.Duration
}

func NewResolver(base string, timeout time.Duration, client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{base: strings.TrimRight(base, "/"), client: client, timeout: timeout}
}

func (r *Resolver) Timeout() time.Duration {
	return r.timeout
}

func (r *Resolver) endpoint(videoID, format string) string {
	// "direct" є прапорцем без значення, тому query збираємо вручну
	return fmt.Sprintf("%s/arytmp?direct&id=%s&format=%s", r.base, url.QueryEscape(videoID), url.QueryEscape(format))
}

func (r *Resolver) Resolve(ctx context.Context, videoID, format string) (Resolved, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint(videoID, format), nil)
	if err != nil {
		return Resolved{}, errors.Wrap(err, "build resolver request")
	}
	resp, err := r.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return Resolved{}, errors.Wrapf(ErrTimeout, "resolver did not answer in %s", r.timeout)
		}
		return Resolved{}, errors.Wrap(err, "resolver request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Resolved{}, errors.Wrapf(ErrBadStatus, "API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if isTimeout(ctx, err) {
			return Resolved{}, errors.Wrapf(ErrTimeout, "resolver did not answer in %s", r.timeout)
		}
		return Resolved{}, errors.Wrap(err, "read resolver response")
	}

	var parsed resolverResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Resolved{}, errors.Wrapf(ErrInvalidResponse, "malformed JSON: %v", err)
	}
	if parsed.Status != "success" || parsed.DownloadURL == "" {
		return Resolved{}, errors.Wrapf(ErrInvalidResponse, "status %q", parsed.Status)
	}
	title := parsed.Title
	if title == "" {
		title = "Downloaded File"
	}
	return Resolved{DownloadURL: parsed.DownloadURL, Title: title}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
