package tgbot

import (
	"strings"
	"unicode/utf16"

	"github.com/celestix/gotgproto/ext"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/Geergon/ytapi-goTelegramBot/internal/config"
	"github.com/Geergon/ytapi-goTelegramBot/internal/job"
	"github.com/Geergon/ytapi-goTelegramBot/internal/yt"
)

const (
	cbCancel         = "cb_cancel"
	cbSettingsPrefix = "cb_settings_"
)

// Link answers a text message that carries a YouTube link with the video
// title, its thumbnail and the format buttons.
func (b *Bot) Link(ctx *ext.Context, u *ext.Update) error {
	msg := u.EffectiveMessage
	if msg == nil {
		return nil
	}
	text := msg.Text
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		return nil
	}
	if !b.store.Bool(config.KeyAutoDetect) {
		return nil
	}
	url, ok := yt.ExtractYoutubeURL(text)
	if !ok || !yt.IsUrl(url) {
		return nil
	}
	chatID, ok := b.Access(ctx, u)
	if !ok {
		return nil
	}

	ref := b.fetcher.Fetch(ctx, url)
	log := b.log.With(zap.Int64("chat_id", chatID), zap.String("video_id", ref.VideoID))

	caption, entities := promptCaption(ref.Title)
	markup := promptMarkup(ref.VideoID)

	sent := false
	if ref.Thumbnail != "" {
		_, err := ctx.SendMedia(chatID, &tg.MessagesSendMediaRequest{
			Media:       &tg.InputMediaPhotoExternal{URL: ref.Thumbnail},
			Message:     caption,
			Entities:    entities,
			ReplyMarkup: markup,
		})
		if err != nil {
			log.Warn("Telegram не прийняв прев'ю, надсилаю текст", zap.Error(err))
		} else {
			sent = true
		}
	}
	if !sent {
		if _, err := ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
			Message:     caption,
			Entities:    entities,
			ReplyMarkup: markup,
		}); err != nil {
			log.Error("Помилка надсилання вибору формату", zap.Error(err))
			return nil
		}
	}

	if b.store.Bool(config.KeyDeleteURL) && yt.IsYoutubeLink(strings.TrimSpace(text)) {
		if err := ctx.DeleteMessages(chatID, []int{msg.ID}); err != nil {
			log.Warn("Помилка видалення повідомлення з посиланням", zap.Int("msg_id", msg.ID), zap.Error(err))
		}
	}
	return nil
}

// promptCaption renders "🎵 <title>" with the title in bold. Entity offsets
// are in UTF-16 code units.
func promptCaption(title string) (string, []tg.MessageEntityClass) {
	return boldTitle("🎵 ", title, "\nSelect a format to download:")
}

// boldTitle joins the parts and marks title bold; offsets are UTF-16 units.
func boldTitle(prefix, title, suffix string) (string, []tg.MessageEntityClass) {
	entities := []tg.MessageEntityClass{
		&tg.MessageEntityBold{
			Offset: utf16Len(prefix),
			Length: utf16Len(title),
		},
	}
	return prefix + title + suffix, entities
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func promptMarkup(videoID string) *tg.ReplyInlineMarkup {
	mp4 := job.Selection{VideoID: videoID, Format: job.FormatMP4}
	mp3 := job.Selection{VideoID: videoID, Format: job.FormatMP3}
	return &tg.ReplyInlineMarkup{
		Rows: []tg.KeyboardButtonRow{
			{Buttons: []tg.KeyboardButtonClass{
				&tg.KeyboardButtonCallback{Text: "🎬 MP4 (Video)", Data: []byte(mp4.Payload())},
			}},
			{Buttons: []tg.KeyboardButtonClass{
				&tg.KeyboardButtonCallback{Text: "🎧 MP3 (Audio)", Data: []byte(mp3.Payload())},
			}},
			{Buttons: []tg.KeyboardButtonClass{
				&tg.KeyboardButtonCallback{Text: "❌ Cancel", Data: []byte(cbCancel)},
			}},
		},
	}
}
