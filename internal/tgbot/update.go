package tgbot

import (
	"github.com/celestix/gotgproto/ext"
	"github.com/gotd/td/tg"

	"github.com/Geergon/ytapi-goTelegramBot/internal/yt"
)

func (b *Bot) UpdateYtdlp(ctx *ext.Context, u *ext.Update) error {
	if !b.AdminAccess(u) {
		return nil
	}
	msg := yt.UpdateYtdlp(ctx, b.cfg.Metadata.YtdlpPath, b.log)
	_, err := ctx.SendMessage(u.EffectiveChat().GetID(), &tg.MessagesSendMessageRequest{
		Message: msg,
	})
	return err
}
