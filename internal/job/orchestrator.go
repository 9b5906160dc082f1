package job

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Geergon/ytapi-goTelegramBot/internal/yt"
)

// ErrBusy is returned when the user already has a job in flight.
var ErrBusy = errors.New("another job is in progress")

type State int

const (
	Idle State = iota
	Locked
	Resolving
	Downloading
	Uploading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Locked:
		return "locked"
	case Resolving:
		return "resolving"
	case Downloading:
		return "downloading"
	case Uploading:
		return "uploading"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Flags is a per-user lease: at most one live token per user.
type Flags interface {
	Acquire(ctx context.Context, userID int64, ttl time.Duration) (token string, ok bool, err error)
	Extend(ctx context.Context, userID int64, token string, ttl time.Duration) error
	Release(ctx context.Context, userID int64, token string) error
}

type Resolver interface {
	Resolve(ctx context.Context, videoID, format string) (yt.Resolved, error)
}

type Downloader interface {
	Download(ctx context.Context, src, dst string) (size int64, reused bool, err error)
}

// File is a finished download ready to be sent.
type File struct {
	Path   string
	Format Format
	Title  string
	Size   int64
}

// Chat is the conversation the job reports to. Respond sends a new message
// and returns its id.
type Chat interface {
	Respond(ctx context.Context, text string) (int, error)
	Edit(ctx context.Context, msgID int, text string) error
	Delete(ctx context.Context, msgID int) error
	Upload(ctx context.Context, f File) error
}

type Options struct {
	Flags          Flags
	Resolver       Resolver
	Downloader     Downloader
	Paths          *yt.Paths
	LeaseTTL       time.Duration
	ResolveTimeout time.Duration
	Log            *zap.Logger
	// OnTransition, if set, sees every state change of every job.
	OnTransition func(jobID string, from, to State)
}

// MinLeaseTTL is the shortest lease New accepts; the heartbeat fires every TTL/3.
const MinLeaseTTL = 3 * time.Second

type Orchestrator struct {
	opts Options
}

func New(opts Options) *Orchestrator {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = 2 * time.Minute
	}
	if opts.LeaseTTL < MinLeaseTTL {
		opts.LeaseTTL = MinLeaseTTL
	}
	return &Orchestrator{opts: opts}
}

// job is one button tap worth of state.
type job struct {
	id          string
	userID      int64
	videoID     string
	format      Format
	localPath   string
	downloadURL string
	title       string
	state       State
}

// Run drives Idle → Locked → Resolving → Downloading → Uploading → Idle.
// The first failure ends the job; the lease is released on every path.
func (o *Orchestrator) Run(ctx context.Context, userID int64, sel Selection, chat Chat) (err error) {
	j := &job{
		id:      uuid.NewString(),
		userID:  userID,
		videoID: sel.VideoID,
		format:  sel.Format,
		state:   Idle,
	}
	log := o.opts.Log.With(
		zap.String("job_id", j.id),
		zap.Int64("user_id", userID),
		zap.String("video_id", sel.VideoID),
		zap.String("format", string(sel.Format)),
	)

	token, ok, err := o.opts.Flags.Acquire(ctx, userID, o.opts.LeaseTTL)
	if err != nil {
		log.Error("Не вдалося перевірити прапорець обробки", zap.Error(err))
		o.respond(ctx, chat, log, MsgInternal)
		return errors.Wrap(err, "acquire lease")
	}
	if !ok {
		o.respond(ctx, chat, log, MsgPleaseWait)
		return ErrBusy
	}
	o.enter(j, Locked)

	stop := o.heartbeat(ctx, log, userID, token)
	defer func() {
		stop()
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if rerr := o.opts.Flags.Release(releaseCtx, userID, token); rerr != nil {
			log.Error("Не вдалося зняти прапорець обробки", zap.Error(rerr))
		}
		o.enter(j, Idle)
		if err != nil {
			log.Warn("Завдання завершилось помилкою", zap.Error(err))
		}
	}()

	placeholder, err := chat.Respond(ctx, fmt.Sprintf(MsgFetching, strings.ToUpper(string(j.format)), o.timeoutSeconds()))
	if err != nil {
		return errors.Wrap(err, "send placeholder")
	}

	o.enter(j, Resolving)
	resolved, err := o.opts.Resolver.Resolve(ctx, j.videoID, string(j.format))
	if err != nil {
		o.edit(ctx, chat, log, placeholder, o.resolveFailure(err))
		return errors.Wrap(err, "resolve")
	}
	j.downloadURL = resolved.DownloadURL
	j.title = resolved.Title
	j.localPath = o.opts.Paths.FilePath(yt.WatchURL(j.videoID), string(j.format), string(j.format))

	o.enter(j, Downloading)
	size, reused, err := o.opts.Downloader.Download(ctx, j.downloadURL, j.localPath)
	if err != nil {
		o.edit(ctx, chat, log, placeholder, fmt.Sprintf(MsgDownloadFailed, err))
		return errors.Wrap(err, "download")
	}
	log.Info("Файл отримано",
		zap.String("path", j.localPath),
		zap.Int64("size", size),
		zap.Bool("reused", reused),
	)

	o.enter(j, Uploading)
	o.edit(ctx, chat, log, placeholder, fmt.Sprintf(MsgUploading, humanize.Bytes(uint64(size))))
	if err := chat.Upload(ctx, File{Path: j.localPath, Format: j.format, Title: j.title, Size: size}); err != nil {
		o.respond(ctx, chat, log, fmt.Sprintf(MsgUploadFailed, err))
		return errors.Wrap(err, "upload")
	}

	if derr := chat.Delete(ctx, placeholder); derr != nil {
		log.Warn("Не вдалося видалити повідомлення", zap.Error(derr))
	}
	log.Info("Файл надіслано", zap.String("title", j.title))
	return nil
}

func (o *Orchestrator) resolveFailure(err error) string {
	switch {
	case errors.Is(err, yt.ErrTimeout):
		return fmt.Sprintf(MsgTimeout, o.timeoutSeconds())
	case errors.Is(err, yt.ErrInvalidResponse):
		return MsgInvalidResponse
	default:
		return fmt.Sprintf(MsgFetchFailed, err)
	}
}

func (o *Orchestrator) timeoutSeconds() int {
	if o.opts.ResolveTimeout <= 0 {
		return 90
	}
	secs := int(o.opts.ResolveTimeout / time.Second)
	if secs == 0 {
		secs = 1
	}
	return secs
}

func (o *Orchestrator) enter(j *job, to State) {
	from := j.state
	j.state = to
	o.opts.Log.Debug("Перехід стану",
		zap.String("job_id", j.id),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	if o.opts.OnTransition != nil {
		o.opts.OnTransition(j.id, from, to)
	}
}

// heartbeat keeps the lease alive while the job runs.
func (o *Orchestrator) heartbeat(ctx context.Context, log *zap.Logger, userID int64, token string) func() {
	interval := o.opts.LeaseTTL / 3
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := o.opts.Flags.Extend(ctx, userID, token, o.opts.LeaseTTL); err != nil {
					log.Warn("Не вдалося подовжити прапорець обробки", zap.Error(err))
				}
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

func (o *Orchestrator) respond(ctx context.Context, chat Chat, log *zap.Logger, text string) {
	if _, err := chat.Respond(ctx, text); err != nil {
		log.Warn("Помилка надсилання повідомлення", zap.Error(err))
	}
}

func (o *Orchestrator) edit(ctx context.Context, chat Chat, log *zap.Logger, msgID int, text string) {
	if err := chat.Edit(ctx, msgID, text); err != nil {
		log.Warn("Помилка редагування повідомлення", zap.Error(err))
	}
}
