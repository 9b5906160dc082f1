package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/dispatcher/handlers"
	"github.com/celestix/gotgproto/dispatcher/handlers/filters"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/glebarez/sqlite"
	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Geergon/ytapi-goTelegramBot/internal/config"
	"github.com/Geergon/ytapi-goTelegramBot/internal/database"
	"github.com/Geergon/ytapi-goTelegramBot/internal/database/redisflags"
	"github.com/Geergon/ytapi-goTelegramBot/internal/job"
	"github.com/Geergon/ytapi-goTelegramBot/internal/logging"
	"github.com/Geergon/ytapi-goTelegramBot/internal/tgbot"
	"github.com/Geergon/ytapi-goTelegramBot/internal/yt"
)

// leaseStore is what both lease backends provide.
type leaseStore interface {
	job.Flags
	tgbot.FlagAdmin
}

func main() {
	cfg, store, err := config.Load("config.yaml")
	if err != nil {
		// логера ще немає
		os.Stderr.WriteString("Помилка завантаження конфігурації: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.New(cfg.LogFile, cfg.Debug)
	defer func() { _ = log.Sync() }()

	store.Watch(func(name string) {
		log.Info("Конфігурацію змінено", zap.String("file", name))
	})

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("Помилка ініціалізації бази даних", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags, err := newLeaseStore(ctx, cfg, db)
	if err != nil {
		log.Fatal("Помилка ініціалізації сховища прапорців", zap.Error(err))
	}
	log.Info("Сховище прапорців обробки", zap.String("backend", cfg.Lease.Backend))

	httpClient := &http.Client{}
	paths := yt.NewPaths(cfg.Download.Dir)
	resolver := yt.NewResolver(cfg.Resolver.BaseURL, cfg.Resolver.Timeout, httpClient)
	downloader := yt.NewDownloader(httpClient, cfg.Download.Timeout, cfg.Download.MaxSizeMB<<20)

	fetcher := newFetcher(cfg, store, httpClient, log)

	jobs := job.New(job.Options{
		Flags:          flags,
		Resolver:       resolver,
		Downloader:     downloader,
		Paths:          paths,
		LeaseTTL:       cfg.Lease.TTL,
		ResolveTimeout: resolver.Timeout(),
		Log:            log.Named("job"),
	})

	bot := tgbot.New(tgbot.Deps{
		Config:    cfg,
		Store:     store,
		Whitelist: database.NewWhitelist(db),
		Flags:     flags,
		Fetcher:   fetcher,
		Jobs:      jobs,
		Log:       log.Named("tgbot"),
	})

	client, err := gotgproto.NewClient(
		cfg.Telegram.AppID,
		cfg.Telegram.APIHash,
		gotgproto.ClientTypeBot(cfg.Telegram.BotToken),
		&gotgproto.ClientOpts{
			Session: sessionMaker.SqlSession(sqlite.Open(cfg.Session)),
			Logger:  log.Named("gotgproto"),
		},
	)
	if err != nil {
		log.Fatal("Помилка при запуску бота", zap.Error(err))
	}

	dispatcher := client.Dispatcher
	dispatcher.AddHandler(handlers.NewCommand("start", bot.Start))
	dispatcher.AddHandler(handlers.NewCommand("help", bot.Help))
	dispatcher.AddHandler(handlers.NewCommand("settings", bot.Settings))
	dispatcher.AddHandler(handlers.NewCommand("logs", bot.SendLogs))
	dispatcher.AddHandler(handlers.NewCommand("update", bot.UpdateYtdlp))
	dispatcher.AddHandler(handlers.NewCommand("unlock", bot.Unlock))
	dispatcher.AddHandler(handlers.NewCommand("allow", bot.Allow))
	dispatcher.AddHandler(handlers.NewCommand("deny", bot.Deny))
	dispatcher.AddHandler(handlers.NewCommand("whitelist", bot.Whitelist))
	dispatcher.AddHandler(handlers.NewCallbackQuery(func(*tg.UpdateBotCallbackQuery) bool { return true }, bot.Callback))
	dispatcher.AddHandlerToGroup(handlers.NewMessage(filters.Message.Text, bot.Link), 1)

	go yt.RunJanitor(ctx, cfg.Download.Dir, cfg.Download.Retention, log.Named("janitor"))

	log.Info("Бот стартував", zap.String("username", client.Self.Username))

	go func() {
		<-ctx.Done()
		log.Info("Зупинка бота")
		client.Stop()
	}()

	if err := client.Idle(); err != nil {
		log.Error("Бот зупинився з помилкою", zap.Error(err))
	}
}

func newLeaseStore(ctx context.Context, cfg *config.Config, db *sql.DB) (leaseStore, error) {
	switch cfg.Lease.Backend {
	case "", "sqlite":
		return database.NewFlags(db), nil
	case "redis":
		rdb := redisflags.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, errors.Wrapf(err, "redis %s", cfg.Redis.Addr)
		}
		return redisflags.New(rdb), nil
	default:
		return nil, errors.Errorf("unknown lease backend %q", cfg.Lease.Backend)
	}
}

// newFetcher builds the metadata chain in the order given by
// metadata.strategies. search and native share one worker pool.
func newFetcher(cfg *config.Config, store *config.Store, httpClient *http.Client, log *zap.Logger) *yt.Fetcher {
	workers := cfg.Metadata.Workers
	if workers <= 0 {
		workers = 4
	}
	pool := semaphore.NewWeighted(workers)

	var sources []yt.MetadataSource
	for _, name := range cfg.Metadata.Strategies {
		switch name {
		case "search":
			if cfg.Metadata.SearchURL != "" {
				sources = append(sources, yt.Pooled(yt.NewSearch(cfg.Metadata.SearchURL, httpClient), pool))
			}
		case "native":
			sources = append(sources, yt.Pooled(yt.NewNative(httpClient), pool))
		case "ytdlp":
			sources = append(sources, yt.NewYtdlp(cfg.Metadata.YtdlpPath, cfg.Metadata.Cookies))
		default:
			log.Warn("Невідоме джерело метаданих", zap.String("name", name))
		}
	}

	enabled := func(name string) bool {
		if name == "search" {
			return store.Bool(config.KeyFastSearch)
		}
		return true
	}
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
	}
	if !slices.Contains(names, "ytdlp") && !slices.Contains(names, "native") {
		log.Warn("Жодного повноцінного джерела метаданих, лишається тільки заглушка")
	}
	log.Info("Джерела метаданих", zap.Strings("sources", names))

	return yt.NewFetcher(log.Named("metadata"), enabled, sources...)
}
