// Package notify delivers completed applications to the people reviewing
// them.
package notify

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/models"
	"github.com/KulmamatovZalkar/newedges/internal/telegram"
)

type messageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
}

// TelegramSink pushes a completion summary to a fixed set of admin chats.
type TelegramSink struct {
	sender  messageSender
	chatIDs []int64
	logger  logger.Logger
}

func NewTelegramSink(sender messageSender, chatIDs []int64, log logger.Logger) *TelegramSink {
	return &TelegramSink{sender: sender, chatIDs: chatIDs, logger: log}
}

// ApplicationCompleted sends the summary to every configured chat. Partial
// delivery returns an error naming the failed chats; successful chats are
// not retried.
func (s *TelegramSink) ApplicationCompleted(ctx context.Context, applicant *models.Applicant, app *models.Application) error {
	if len(s.chatIDs) == 0 {
		return nil
	}

	text := formatSummary(applicant, app)
	var failed []string
	for _, chatID := range s.chatIDs {
		if err := s.sender.SendMessage(ctx, chatID, text, nil); err != nil {
			s.logger.WithError(err).Warn("admin notification failed", map[string]interface{}{
				"chatId": chatID,
			})
			failed = append(failed, fmt.Sprintf("%d", chatID))
		}
	}
	if len(failed) > 0 {
		return apperrors.NewNotificationSendFailedError("telegram",
			fmt.Errorf("chats %s unreachable", strings.Join(failed, ", ")))
	}
	return nil
}

func formatSummary(applicant *models.Applicant, app *models.Application) string {
	var b strings.Builder
	b.WriteString("📋 <b>Новая анкета сотрудника</b>\n\n")

	name := app.FullName
	if name == "" {
		name = strings.TrimSpace(applicant.FirstName + " " + applicant.LastName)
	}
	if name != "" {
		fmt.Fprintf(&b, "Имя: %s\n", name)
	}
	if applicant.Username != "" {
		fmt.Fprintf(&b, "Telegram: @%s\n", applicant.Username)
	}
	if app.Position != "" {
		fmt.Fprintf(&b, "Позиция: %s\n", app.Position)
	}
	if app.Phone != "" {
		fmt.Fprintf(&b, "Телефон: %s\n", app.Phone)
	}
	fmt.Fprintf(&b, "\nЗаполнено: %d%%", app.CompletionPercentage())
	return b.String()
}
