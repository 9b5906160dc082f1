package yt

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/singleflight"
)

// ChunkSize is how much of the response body is buffered before each write.
const ChunkSize = 1 << 20

type Downloader struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	group    singleflight.Group
}

// NewDownloader returns a downloader; maxBytes <= 0 disables the size check.
func NewDownloader(client *http.Client, timeout time.Duration, maxBytes int64) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{client: client, timeout: timeout, maxBytes: maxBytes}
}

type downloadResult struct {
	size   int64
	reused bool
}

// Download stores src at dst and returns the file size. A non-empty file
// already at dst is reused. Concurrent calls for the same dst share one
// transfer.
func (d *Downloader) Download(ctx context.Context, src, dst string) (size int64, reused bool, err error) {
	v, err, _ := d.group.Do(dst, func() (interface{}, error) {
		if st, err := os.Stat(dst); err == nil && st.Mode().IsRegular() && st.Size() > 0 {
			now := time.Now()
			// щоб janitor не прибрав файл посеред вивантаження
			_ = os.Chtimes(dst, now, now)
			return downloadResult{size: st.Size(), reused: true}, nil
		}
		// трансфер спільний, тож скасування першого запиту не має рвати його для інших
		n, err := d.fetch(context.WithoutCancel(ctx), src, dst)
		return downloadResult{size: n}, err
	})
	if err != nil {
		return 0, false, err
	}
	res := v.(downloadResult)
	return res.size, res.reused, nil
}

func (d *Downloader) fetch(ctx context.Context, src, dst string) (int64, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, errors.Wrapf(err, "create directory %s", dir)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return 0, errors.Wrap(err, "build download request")
	}
	resp, err := d.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return 0, errors.Wrapf(ErrTimeout, "download did not finish in %s", d.timeout)
		}
		return 0, errors.Wrap(err, "download request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, errors.Wrapf(ErrBadStatus, "Download failed with HTTP %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dst)+".part-*")
	if err != nil {
		return 0, errors.Wrap(err, "create temp file")
	}
	written, err := d.copyChunks(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close temp file")
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		if isTimeout(ctx, err) {
			return 0, errors.Wrapf(ErrTimeout, "download did not finish in %s", d.timeout)
		}
		return 0, err
	}
	if resp.ContentLength >= 0 && written != resp.ContentLength {
		_ = os.Remove(tmp.Name())
		return 0, errors.Wrapf(ErrTruncated, "got %d of %d bytes", written, resp.ContentLength)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, errors.Wrap(err, "move downloaded file")
	}
	return written, nil
}

func (d *Downloader) copyChunks(w io.Writer, r io.Reader) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64
	for {
		n, rerr := readChunk(r, buf)
		if n > 0 {
			written += int64(n)
			if d.maxBytes > 0 && written > d.maxBytes {
				return written, errors.Wrapf(ErrTooLarge, "more than %d bytes", d.maxBytes)
			}
			if _, err := w.Write(buf[:n]); err != nil {
				return written, errors.Wrap(err, "write chunk")
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, errors.Wrap(rerr, "read body")
		}
	}
}

// readChunk fills buf like io.ReadFull but passes the reader's own error
// through, so io.EOF means a clean end of body and a cut connection stays
// io.ErrUnexpectedEOF.
func readChunk(r io.Reader, buf []byte) (int, error) {
	var n int
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
