package tgbot

import (
	"github.com/celestix/gotgproto/ext"
)

const startMessage = `🎧 Welcome to the YouTube downloader!

Paste a YouTube link and pick MP4 or MP3, the file comes back here.

Use /help to see how it works.`

const helpMessage = `🎥 YouTube Video Downloader
1. Paste a YouTube video or Shorts link 🔗
2. Choose MP4 (video) or MP3 (audio)
3. Receive your file 📦

One file at a time: wait until the current one arrives before tapping again.`

func (b *Bot) Start(ctx *ext.Context, u *ext.Update) error {
	if _, ok := b.Access(ctx, u); !ok {
		return nil
	}
	return b.reply(ctx, u, startMessage)
}

func (b *Bot) Help(ctx *ext.Context, u *ext.Update) error {
	if _, ok := b.Access(ctx, u); !ok {
		return nil
	}
	return b.reply(ctx, u, helpMessage)
}
