package tgbot

import (
	"strings"

	"github.com/celestix/gotgproto/ext"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

// Callback routes every inline button tap.
func (b *Bot) Callback(ctx *ext.Context, u *ext.Update) error {
	cb := u.CallbackQuery
	if cb == nil {
		return nil
	}
	data := string(cb.Data)
	switch {
	case strings.HasPrefix(data, cbSettingsPrefix):
		return b.SettingsCallback(ctx, u)
	case data == cbCancel:
		return b.Cancel(ctx, u)
	default:
		return b.Download(ctx, u)
	}
}

// Cancel removes the format prompt.
func (b *Bot) Cancel(ctx *ext.Context, u *ext.Update) error {
	cb := u.CallbackQuery
	chatID := u.EffectiveChat().GetID()
	if err := ctx.DeleteMessages(chatID, []int{cb.MsgID}); err != nil {
		b.log.Warn("Помилка видалення повідомлення", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	_, _ = ctx.AnswerCallback(&tg.MessagesSetBotCallbackAnswerRequest{
		QueryID: cb.QueryID,
	})
	return nil
}
