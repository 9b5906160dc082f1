package yt

import (
	"encoding/hex"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"
)

const pathCacheSize = 128

type pathKey struct {
	url, formatID, ext string
}

// Paths maps (url, format, extension) to a file name inside dir. The result
// is cached but never checked against the disk, so a path may point at a file
// that was already removed.
type Paths struct {
	dir   string
	cache *lru.Cache[pathKey, string]
}

func NewPaths(dir string) *Paths {
	cache, err := lru.New[pathKey, string](pathCacheSize)
	if err != nil {
		// лише для size <= 0
		panic(err)
	}
	return &Paths{dir: dir, cache: cache}
}

func (p *Paths) Dir() string {
	return p.dir
}

func (p *Paths) FilePath(url, formatID, ext string) string {
	key := pathKey{url: url, formatID: formatID, ext: ext}
	if path, ok := p.cache.Get(key); ok {
		return path
	}
	sum := blake2b.Sum512([]byte(url + formatID + ext))
	path := filepath.Join(p.dir, hex.EncodeToString(sum[:])+"."+ext)
	p.cache.Add(key, path)
	return path
}

func (p *Paths) Cached() int {
	return p.cache.Len()
}
