package flow

import (
	"context"
	"os"

	"github.com/KulmamatovZalkar/newedges/internal/models"
	"github.com/KulmamatovZalkar/newedges/internal/telegram"
)

// choiceKeyboard builds one button per catalog choice, one row each, with
// the choice label round-tripped through the callback payload.
func choiceKeyboard(q *models.Question) *telegram.InlineKeyboardMarkup {
	choices := q.ChoicesList()
	if q.Type != models.QuestionTypeChoice || len(choices) == 0 {
		return nil
	}
	rows := make([][]telegram.InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         choice,
			CallbackData: callbackChoicePrefix + choice,
		}})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func teamKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: "✅ Да", CallbackData: callbackTeamYes},
			{Text: "❌ Нет", CallbackData: callbackTeamNo},
		}},
	}
}

// sendQuestion delivers a catalog question: as a photo with caption when
// the question carries an image that exists on disk, as plain text
// otherwise, with the choice keyboard attached either way.
func (e *Engine) sendQuestion(ctx context.Context, chatID int64, q *models.Question) error {
	keyboard := choiceKeyboard(q)

	if q.Image != "" {
		imagePath := e.media.Resolve(q.Image)
		if _, err := os.Stat(imagePath); err == nil {
			return e.sendPhoto(ctx, chatID, imagePath, q.Text, keyboard)
		}
		e.logger.Warn("question image missing, sending as text", map[string]interface{}{
			"questionId": q.ID,
			"image":      q.Image,
		})
	}
	return e.sendMessage(ctx, chatID, q.Text, keyboard)
}
