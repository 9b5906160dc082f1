package tgbot

import (
	"github.com/celestix/gotgproto/ext"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/Geergon/ytapi-goTelegramBot/internal/config"
)

type toggle struct {
	key   string
	label string
}

var toggles = []toggle{
	{key: config.KeyAutoDetect, label: "Автовизначення посилань: "},
	{key: config.KeyFastSearch, label: "Швидкий пошук метаданих: "},
	{key: config.KeyDeleteURL, label: "Видалення посилань: "},
}

func (b *Bot) Settings(ctx *ext.Context, u *ext.Update) error {
	if !b.AdminAccess(u) {
		return nil
	}
	chatID := u.EffectiveChat().GetID()

	_, err := ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{
		Message:     "⚙️ Налаштування бота:\nВиберіть опцію для увімкнення/вимкнення.",
		ReplyMarkup: b.settingsMarkup(),
	})
	if err != nil {
		b.log.Error("Помилка надсилання налаштувань", zap.Error(err))
	}
	return nil
}

func (b *Bot) settingsMarkup() *tg.ReplyInlineMarkup {
	rows := make([]tg.KeyboardButtonRow, 0, len(toggles))
	for _, t := range toggles {
		rows = append(rows, tg.KeyboardButtonRow{
			Buttons: []tg.KeyboardButtonClass{
				&tg.KeyboardButtonCallback{
					Text: t.label + boolToEmoji(b.store.Bool(t.key)),
					Data: []byte(cbSettingsPrefix + t.key),
				},
			},
		})
	}
	return &tg.ReplyInlineMarkup{Rows: rows}
}

func boolToEmoji(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

func (b *Bot) SettingsCallback(ctx *ext.Context, u *ext.Update) error {
	cb := u.CallbackQuery
	defer func() {
		_, _ = ctx.AnswerCallback(&tg.MessagesSetBotCallbackAnswerRequest{QueryID: cb.QueryID})
	}()
	if !b.AdminAccess(u) {
		return nil
	}

	key := string(cb.Data[len(cbSettingsPrefix):])
	known := false
	for _, t := range toggles {
		if t.key == key {
			known = true
			break
		}
	}
	if !known {
		b.log.Warn("Невідомий callback", zap.ByteString("data", cb.Data))
		return nil
	}

	val, err := b.store.Toggle(key)
	if err != nil {
		b.log.Error("Помилка збереження конфігурації", zap.Error(err))
		return nil
	}
	b.log.Info("Налаштування змінено", zap.String("key", key), zap.Bool("value", val))

	_, err = ctx.EditMessage(u.EffectiveChat().GetID(), &tg.MessagesEditMessageRequest{
		ID:          cb.MsgID,
		Message:     "⚙️ Налаштування бота:",
		ReplyMarkup: b.settingsMarkup(),
	})
	if err != nil {
		b.log.Warn("Помилка оновлення налаштувань", zap.Error(err))
	}
	return nil
}
