package yt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	var gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		_, _ = w.Write([]byte(`{"status":"success","download_url":"https://cdn/x.mp4","title":"Song"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL+"/", time.Second, srv.Client())
	res, err := r.Resolve(context.Background(), "dQw4w9WgXcQ", "mp4")
	require.NoError(t, err)
	assert.Equal(t, "/arytmp?direct&id=dQw4w9WgXcQ&format=mp4", gotURI)
	assert.Equal(t, Resolved{DownloadURL: "https://cdn/x.mp4", Title: "Song"}, res)
}

func TestResolver_DefaultTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","download_url":"https://cdn/x.mp3"}`))
	}))
	defer srv.Close()

	res, err := NewResolver(srv.URL, time.Second, nil).Resolve(context.Background(), "id", "mp3")
	require.NoError(t, err)
	assert.Equal(t, "Downloaded File", res.Title)
}

func TestResolver_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
		msg    string
	}{
		{"not found", http.StatusNotFound, `{}`, ErrBadStatus, "API returned 404"},
		{"malformed", http.StatusOK, `{"status":`, ErrInvalidResponse, ""},
		{"failed status", http.StatusOK, `{"status":"error","download_url":"https://cdn/x"}`, ErrInvalidResponse, ""},
		{"empty url", http.StatusOK, `{"status":"success","download_url":""}`, ErrInvalidResponse, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewResolver(srv.URL, time.Second, nil).Resolve(context.Background(), "id", "mp4")
			require.ErrorIs(t, err, tt.target)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestResolver_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := NewResolver(srv.URL, 50*time.Millisecond, nil)
	assert.Equal(t, 50*time.Millisecond, r.Timeout())
	_, err := r.Resolve(context.Background(), "id", "mp4")
	require.ErrorIs(t, err, ErrTimeout)
}
