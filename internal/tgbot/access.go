package tgbot

import (
	"slices"

	"github.com/celestix/gotgproto/ext"
	"go.uber.org/zap"
)

// Access reports the chat the update came from and whether the bot may
// answer there. With no allow-list configured at all the bot is open.
func (b *Bot) Access(ctx *ext.Context, u *ext.Update) (int64, bool) {
	chatID := u.EffectiveChat().GetID()
	user := u.EffectiveUser()
	var userID int64
	var username string
	if user != nil {
		userID = user.ID
		username = user.Username
	}

	allowedChats := b.store.Int64Slice("allowed_chat")
	allowedUsers := b.store.Int64Slice("allowed_user")
	if b.cfg.Telegram.ChatID != 0 && chatID == b.cfg.Telegram.ChatID {
		return chatID, true
	}
	if slices.Contains(allowedChats, chatID) || slices.Contains(allowedUsers, userID) {
		return chatID, true
	}

	inWhitelist, err := b.whitelist.Contains(ctx, userID)
	if err != nil {
		b.log.Error("Помилка перевірки whitelist", zap.Error(err))
	}
	if inWhitelist {
		return chatID, true
	}

	if b.cfg.Telegram.ChatID == 0 && len(allowedChats) == 0 && len(allowedUsers) == 0 {
		if empty, err := b.whitelist.Empty(ctx); err == nil && empty {
			return chatID, true
		}
	}

	b.log.Info("Неавторизований доступ",
		zap.String("username", username),
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
	)
	return chatID, false
}

// AdminAccess is true only for users listed in allowed_user.
func (b *Bot) AdminAccess(u *ext.Update) bool {
	user := u.EffectiveUser()
	if user == nil {
		return false
	}
	if slices.Contains(b.store.Int64Slice("allowed_user"), user.ID) {
		return true
	}
	b.log.Info("Неавторизований доступ до адмінських команд",
		zap.String("username", user.Username),
		zap.Int64("user_id", user.ID),
	)
	return false
}
