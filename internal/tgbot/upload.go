package tgbot

import (
	"context"
	"path/filepath"

	"github.com/celestix/gotgproto/ext"
	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"

	"github.com/Geergon/ytapi-goTelegramBot/internal/job"
)

// tgChat is the job.Chat of one callback query.
type tgChat struct {
	ctx    *ext.Context
	u      *ext.Update
	chatID int64
	tag    string
	log    *zap.Logger
}

func (c *tgChat) Respond(_ context.Context, text string) (int, error) {
	msg, err := c.ctx.SendMessage(c.chatID, &tg.MessagesSendMessageRequest{Message: text})
	if err != nil {
		return 0, errors.Wrap(err, "send message")
	}
	return msg.GetID(), nil
}

func (c *tgChat) Edit(_ context.Context, msgID int, text string) error {
	_, err := c.ctx.EditMessage(c.chatID, &tg.MessagesEditMessageRequest{
		ID:      msgID,
		Message: text,
	})
	if err != nil && !tgerr.Is(err, "MESSAGE_NOT_MODIFIED") {
		return errors.Wrap(err, "edit message")
	}
	return nil
}

func (c *tgChat) Delete(_ context.Context, msgID int) error {
	if err := c.ctx.DeleteMessages(c.chatID, []int{msgID}); err != nil {
		return errors.Wrap(err, "delete message")
	}
	return nil
}

func (c *tgChat) Upload(ctx context.Context, f job.File) error {
	if _, err := c.ctx.Raw.MessagesSetTyping(ctx, &tg.MessagesSetTypingRequest{
		Peer:   c.u.EffectiveChat().GetInputPeer(),
		Action: &tg.SendMessageUploadDocumentAction{},
	}); err != nil {
		c.log.Debug("Не вдалося надіслати статус завантаження", zap.Error(err))
	}

	file, err := uploader.NewUploader(c.ctx.Raw).FromPath(ctx, f.Path)
	if err != nil {
		return errors.Wrap(err, "upload file")
	}

	caption, entities := uploadCaption(f.Title, c.tag)
	_, err = c.ctx.SendMedia(c.chatID, &tg.MessagesSendMediaRequest{
		Media:    buildMedia(file, f, c.tag),
		Message:  caption,
		Entities: entities,
	})
	if err != nil {
		return errors.Wrap(err, "send media")
	}
	return nil
}

func uploadCaption(title, tag string) (string, []tg.MessageEntityClass) {
	return boldTitle("✅ ", title, "\n"+tag)
}

// buildMedia picks mime type and attributes by format.
func buildMedia(file tg.InputFileClass, f job.File, tag string) *tg.InputMediaUploadedDocument {
	media := &tg.InputMediaUploadedDocument{File: file}
	switch f.Format {
	case job.FormatMP3:
		media.MimeType = "audio/mpeg"
		media.Attributes = append(media.Attributes, &tg.DocumentAttributeAudio{
			Title:     f.Title,
			Performer: tag,
		})
	default:
		media.MimeType = "video/mp4"
		media.Attributes = append(media.Attributes, &tg.DocumentAttributeVideo{
			SupportsStreaming: true,
		})
	}
	media.Attributes = append(media.Attributes, &tg.DocumentAttributeFilename{
		FileName: filepath.Base(f.Path),
	})
	return media
}
