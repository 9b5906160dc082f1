package tgbot

import (
	"os"
	"path/filepath"

	"github.com/celestix/gotgproto/ext"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

func (b *Bot) SendLogs(ctx *ext.Context, u *ext.Update) error {
	if !b.AdminAccess(u) {
		return nil
	}
	chatID := u.EffectiveChat().GetID()
	logFile := b.cfg.LogFile

	reply := func(text string) error {
		_, err := ctx.SendMessage(chatID, &tg.MessagesSendMessageRequest{Message: text})
		return err
	}

	info, err := os.Stat(logFile)
	switch {
	case err != nil:
		b.log.Warn("Файл логів недоступний", zap.String("file", logFile), zap.Error(err))
		return reply("Помилка: файл логів недоступний.")
	case info.IsDir():
		return reply("Помилка: файл логів є директорією.")
	case info.Size() == 0:
		return reply("Файл логів порожній.")
	}

	file, err := uploader.NewUploader(ctx.Raw).FromPath(ctx, logFile)
	if err != nil {
		b.log.Error("Помилка завантаження файлу логів", zap.Error(err))
		return reply("Помилка: не вдалося завантажити файл логів.")
	}

	_, err = ctx.SendMedia(chatID, &tg.MessagesSendMediaRequest{
		Media: &tg.InputMediaUploadedDocument{
			File:     file,
			MimeType: "application/json",
			Attributes: []tg.DocumentAttributeClass{
				&tg.DocumentAttributeFilename{FileName: filepath.Base(logFile)},
			},
		},
	})
	if err != nil {
		b.log.Error("Помилка надсилання файлу логів", zap.Error(err))
	}
	return nil
}
