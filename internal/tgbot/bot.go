package tgbot

import (
	"context"

	"go.uber.org/zap"

	"github.com/Geergon/ytapi-goTelegramBot/internal/config"
	"github.com/Geergon/ytapi-goTelegramBot/internal/database"
	"github.com/Geergon/ytapi-goTelegramBot/internal/job"
	"github.com/Geergon/ytapi-goTelegramBot/internal/yt"
)

// FlagAdmin is what /unlock needs from the lease store.
type FlagAdmin interface {
	Processing(ctx context.Context, userID int64) (bool, error)
	Reset(ctx context.Context, userID int64) error
}

type Bot struct {
	cfg       *config.Config
	store     *config.Store
	whitelist *database.Whitelist
	flags     FlagAdmin
	fetcher   *yt.Fetcher
	jobs      *job.Orchestrator
	log       *zap.Logger
}

type Deps struct {
	Config    *config.Config
	Store     *config.Store
	Whitelist *database.Whitelist
	Flags     FlagAdmin
	Fetcher   *yt.Fetcher
	Jobs      *job.Orchestrator
	Log       *zap.Logger
}

func New(d Deps) *Bot {
	return &Bot{
		cfg:       d.Config,
		store:     d.Store,
		whitelist: d.Whitelist,
		flags:     d.Flags,
		fetcher:   d.Fetcher,
		jobs:      d.Jobs,
		log:       d.Log,
	}
}
