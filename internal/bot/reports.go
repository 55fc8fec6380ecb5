package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v3"
	"go.uber.org/zap"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/util"
	"ecostep_backend/pkg/logger"
)

func (b *Bot) onPhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return nil
	}
	return b.captureAttachment(c, photo.FileID, model.AttachmentPhoto, nil)
}

func (b *Bot) onDocument(c tele.Context) error {
	doc := c.Message().Document
	if doc == nil {
		return nil
	}
	var name *string
	if doc.FileName != "" {
		fileName := doc.FileName
		name = &fileName
	}
	return b.captureAttachment(c, doc.FileID, model.AttachmentDocument, name)
}

// captureAttachment 把收到的附件放进草稿并展示确认卡
func (b *Bot) captureAttachment(c tele.Context, fileID, attachmentType string, attachmentName *string) error {
	userID := c.Sender().ID
	sess := b.state.snapshot(userID)
	if sess.ReportChallengeID == "" {
		return c.Send("Сначала выберите задание для отчёта через «📮 Отчёт».", backMenu())
	}

	var caption *string
	if text := c.Message().Caption; text != "" {
		captionText := text
		caption = &captionText
	}

	draft := &reportDraft{
		ChallengeID:    sess.ReportChallengeID,
		FileID:         fileID,
		Caption:        caption,
		AttachmentType: attachmentType,
		AttachmentName: attachmentName,
	}
	b.state.update(userID, func(s *session) { s.Draft = draft })

	titles := b.catalog.Titles([]string{draft.ChallengeID})
	kind := "📷 фото"
	if attachmentType == model.AttachmentDocument {
		kind = "📎 документ"
	}

	text := fmt.Sprintf("📋 <b>Проверьте отчёт</b>\n\nЗадание: %s\nВложение: %s", titles[draft.ChallengeID], kind)
	if caption != nil {
		text += fmt.Sprintf("\nПодпись: %s", *caption)
	}
	text += "\n\nОтправить на проверку?"

	return c.Send(text, confirmKeyboard())
}

func (b *Bot) onReportConfirm(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.state.snapshot(userID)
	if sess.Draft == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Нет отчёта для отправки."})
	}
	draft := sess.Draft

	err := b.challenges.Submit(userID, draft.ChallengeID, draft.FileID, draft.Caption, draft.AttachmentType, draft.AttachmentName)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotAccepted) {
			b.state.reset(userID)
			return c.Send("Задание уже не активно. Примите его заново в «📋 Задания».", mainMenu())
		}
		logger.Log.Error("提交报告失败",
			zap.Int64("user_id", userID),
			zap.String("challenge_id", draft.ChallengeID),
			zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}

	b.state.reset(userID)
	return c.Send("✅ Отчёт отправлен на проверку! Мы сообщим о решении.", mainMenu())
}

// onReportEdit 丢弃草稿，重新等待附件
func (b *Bot) onReportEdit(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.state.snapshot(userID)
	if sess.Draft == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Нет отчёта для изменения."})
	}

	b.state.update(userID, func(s *session) { s.Draft = nil })
	return c.Send("Хорошо, пришлите новое фото или документ.", backMenu())
}
