package tgbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/celestix/gotgproto/ext"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/Geergon/ytapi-goTelegramBot/internal/database"
)

func (b *Bot) reply(ctx *ext.Context, u *ext.Update, text string) error {
	_, err := ctx.SendMessage(u.EffectiveChat().GetID(), &tg.MessagesSendMessageRequest{
		Message: text,
	})
	return err
}

// Unlock drops a stuck processing flag: /unlock <user_id>.
func (b *Bot) Unlock(ctx *ext.Context, u *ext.Update) error {
	if !b.AdminAccess(u) {
		return nil
	}
	args := strings.Fields(u.EffectiveMessage.Text)
	if len(args) != 2 {
		return b.reply(ctx, u, "Використання: /unlock <user_id>")
	}
	userID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return b.reply(ctx, u, "Некоректний user_id: "+args[1])
	}

	busy, err := b.flags.Processing(ctx, userID)
	if err != nil {
		b.log.Error("Помилка читання прапорця обробки", zap.Int64("user_id", userID), zap.Error(err))
		return b.reply(ctx, u, "Помилка бази даних.")
	}
	if !busy {
		return b.reply(ctx, u, fmt.Sprintf("Користувач %d нічого не обробляє.", userID))
	}
	if err := b.flags.Reset(ctx, userID); err != nil {
		b.log.Error("Помилка скидання прапорця обробки", zap.Int64("user_id", userID), zap.Error(err))
		return b.reply(ctx, u, "Помилка бази даних.")
	}
	b.log.Info("Прапорець обробки скинуто вручну", zap.Int64("user_id", userID))
	return b.reply(ctx, u, fmt.Sprintf("Прапорець обробки для %d знято.", userID))
}

// Allow adds a user to the whitelist: /allow <user_id> <username>.
func (b *Bot) Allow(ctx *ext.Context, u *ext.Update) error {
	if !b.AdminAccess(u) {
		return nil
	}
	args := strings.Fields(u.EffectiveMessage.Text)
	if len(args) != 3 {
		return b.reply(ctx, u, "Використання: /allow <user_id> <username>")
	}
	userID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return b.reply(ctx, u, "Некоректний user_id: "+args[1])
	}
	username := strings.TrimPrefix(args[2], "@")
	if err := b.whitelist.Add(ctx, userID, username); err != nil {
		b.log.Error("Помилка додавання у whitelist", zap.Error(err))
		return b.reply(ctx, u, "Помилка бази даних.")
	}
	return b.reply(ctx, u, fmt.Sprintf("Користувача @%s (%d) додано до whitelist.", username, userID))
}

// Deny removes a user from the whitelist: /deny <username>.
func (b *Bot) Deny(ctx *ext.Context, u *ext.Update) error {
	if !b.AdminAccess(u) {
		return nil
	}
	args := strings.Fields(u.EffectiveMessage.Text)
	if len(args) != 2 {
		return b.reply(ctx, u, "Використання: /deny <username>")
	}
	username := strings.TrimPrefix(args[1], "@")
	deleted, err := b.whitelist.Remove(ctx, username)
	if err != nil {
		b.log.Error("Помилка видалення з whitelist", zap.Error(err))
		return b.reply(ctx, u, "Помилка бази даних.")
	}
	if !deleted {
		return b.reply(ctx, u, "Користувача @"+username+" немає у whitelist.")
	}
	return b.reply(ctx, u, "Користувача @"+username+" видалено з whitelist.")
}

func (b *Bot) Whitelist(ctx *ext.Context, u *ext.Update) error {
	if !b.AdminAccess(u) {
		return nil
	}
	entries, err := b.whitelist.List(ctx)
	if err != nil {
		b.log.Error("Помилка читання whitelist", zap.Error(err))
		return b.reply(ctx, u, "Помилка бази даних.")
	}
	return b.reply(ctx, u, formatWhitelist(entries))
}

func formatWhitelist(entries []database.Entry) string {
	if len(entries) == 0 {
		return "Whitelist порожній."
	}
	var sb strings.Builder
	sb.WriteString("Whitelist:\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. @%s (%d)\n", i+1, e.Username, e.UserID)
	}
	return strings.TrimRight(sb.String(), "\n")
}
