package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/models"
	"github.com/KulmamatovZalkar/newedges/internal/telegram"
)

type recordingSender struct {
	chats  []int64
	texts  []string
	failOn map[int64]error
}

func (r *recordingSender) SendMessage(_ context.Context, chatID int64, text string, _ *telegram.InlineKeyboardMarkup) error {
	if err, ok := r.failOn[chatID]; ok {
		return err
	}
	r.chats = append(r.chats, chatID)
	r.texts = append(r.texts, text)
	return nil
}

func TestApplicationCompletedNotifiesEveryChat(t *testing.T) {
	sender := &recordingSender{}
	sink := NewTelegramSink(sender, []int64{100, 200}, logger.NewTestLogger(t))

	applicant := &models.Applicant{TelegramID: 42, Username: "ivan"}
	app := &models.Application{FullName: "Иван Иванов", Position: "Куратор", Phone: "+79001234567"}

	err := sink.ApplicationCompleted(context.Background(), applicant, app)

	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200}, sender.chats)
	assert.Contains(t, sender.texts[0], "Иван Иванов")
	assert.Contains(t, sender.texts[0], "@ivan")
	assert.Contains(t, sender.texts[0], "Куратор")
	assert.Contains(t, sender.texts[0], "18%")
}

func TestApplicationCompletedReportsPartialFailure(t *testing.T) {
	sender := &recordingSender{failOn: map[int64]error{200: errors.New("blocked")}}
	sink := NewTelegramSink(sender, []int64{100, 200}, logger.NewTestLogger(t))

	err := sink.ApplicationCompleted(context.Background(), &models.Applicant{}, &models.Application{})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotificationSendFailed))
	assert.Equal(t, []int64{100}, sender.chats)
}

func TestNoConfiguredChatsIsNoOp(t *testing.T) {
	sender := &recordingSender{}
	sink := NewTelegramSink(sender, nil, logger.NewTestLogger(t))

	err := sink.ApplicationCompleted(context.Background(), &models.Applicant{}, &models.Application{})

	require.NoError(t, err)
	assert.Empty(t, sender.chats)
}

func TestSummaryFallsBackToTelegramName(t *testing.T) {
	applicant := &models.Applicant{FirstName: "Иван", LastName: "Иванов"}
	text := formatSummary(applicant, &models.Application{})

	assert.Contains(t, text, "Иван Иванов")
}
