package tgbot

import (
	"github.com/celestix/gotgproto/ext"
	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/Geergon/ytapi-goTelegramBot/internal/job"
)

// Download handles a tap on one of the format buttons.
func (b *Bot) Download(ctx *ext.Context, u *ext.Update) error {
	cb := u.CallbackQuery
	chatID, ok := b.Access(ctx, u)
	if !ok {
		_, _ = ctx.AnswerCallback(&tg.MessagesSetBotCallbackAnswerRequest{QueryID: cb.QueryID})
		return nil
	}

	sel, err := job.ParseSelection(string(cb.Data))
	if err != nil {
		b.log.Warn("Некоректні дані кнопки", zap.ByteString("data", cb.Data), zap.Error(err))
		_, _ = ctx.AnswerCallback(&tg.MessagesSetBotCallbackAnswerRequest{
			QueryID: cb.QueryID,
			Message: job.MsgInvalidData,
		})
		return nil
	}
	_, _ = ctx.AnswerCallback(&tg.MessagesSetBotCallbackAnswerRequest{QueryID: cb.QueryID})

	userID := cb.UserID
	chat := &tgChat{ctx: ctx, u: u, chatID: chatID, tag: b.cfg.CaptionTag, log: b.log}
	if err := b.jobs.Run(ctx, userID, sel, chat); err != nil && !errors.Is(err, job.ErrBusy) {
		b.log.Error("Помилка обробки запиту",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
			zap.String("video_id", sel.VideoID),
			zap.Error(err),
		)
	}
	return nil
}
