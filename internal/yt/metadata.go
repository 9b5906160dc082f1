package yt

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// VideoReference is what the format prompt needs to know about a video.
type VideoReference struct {
	VideoID   string
	Title     string
	Thumbnail string
}

// MetadataSource is one way of looking a video up. Sources are tried in
// order by Fetcher; the first one that succeeds wins.
type MetadataSource interface {
	Name() string
	Lookup(ctx context.Context, id, url string) (VideoReference, error)
}

var errNoResult = errors.New("no result")

type pooled struct {
	MetadataSource
	sem *semaphore.Weighted
}

// Pooled bounds how many lookups of src may run at the same time. The
// semaphore is meant to be shared between sources.
func Pooled(src MetadataSource, sem *semaphore.Weighted) MetadataSource {
	return &pooled{MetadataSource: src, sem: sem}
}

func (p *pooled) Lookup(ctx context.Context, id, url string) (VideoReference, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return VideoReference{}, errors.Wrap(err, "wait for worker")
	}
	defer p.sem.Release(1)
	return p.MetadataSource.Lookup(ctx, id, url)
}

type Fetcher struct {
	sources []MetadataSource
	enabled func(name string) bool
	log     *zap.Logger
}

// NewFetcher builds a resolver over sources. enabled may be nil; otherwise it
// is asked before every source is tried (runtime toggles).
func NewFetcher(log *zap.Logger, enabled func(name string) bool, sources ...MetadataSource) *Fetcher {
	return &Fetcher{sources: sources, enabled: enabled, log: log}
}

// Fetch never fails: when every source gives up it returns a minimal record
// built from the id alone.
func (f *Fetcher) Fetch(ctx context.Context, url string) VideoReference {
	id := NormalizeVideoID(url)
	for _, src := range f.sources {
		if f.enabled != nil && !f.enabled(src.Name()) {
			continue
		}
		ref, err := src.Lookup(ctx, id, url)
		if err != nil {
			f.log.Debug("Джерело метаданих не спрацювало",
				zap.String("source", src.Name()),
				zap.String("video_id", id),
				zap.Error(err),
			)
			continue
		}
		if ref.VideoID == "" {
			ref.VideoID = id
		}
		if ref.Title == "" {
			ref.Title = fallbackTitle(ref.VideoID)
		}
		return ref
	}
	f.log.Info("Метадані недоступні, використовую заглушку", zap.String("video_id", id))
	return VideoReference{VideoID: id, Title: fallbackTitle(id)}
}

func fallbackTitle(id string) string {
	return fmt.Sprintf("YouTube Video (%s)", id)
}
