package flow

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/common/metrics"
	"github.com/KulmamatovZalkar/newedges/internal/media"
	"github.com/KulmamatovZalkar/newedges/internal/models"
	"github.com/KulmamatovZalkar/newedges/internal/store/postgres"
	"github.com/KulmamatovZalkar/newedges/internal/telegram"
)

// Store is the persistence surface the engine drives.
type Store interface {
	GetOrCreateApplicant(ctx context.Context, identity models.Identity) (*models.Applicant, error)
	GetApplicant(ctx context.Context, telegramID int64) (*models.Applicant, error)
	SetTeamMember(ctx context.Context, telegramID int64, isTeamMember bool, stage string) error
	SetStage(ctx context.Context, telegramID int64, stage string) error
	ResetApplicant(ctx context.Context, telegramID int64) error

	FirstQuestion(ctx context.Context) (*models.Question, error)
	NextQuestion(ctx context.Context, afterOrder int, afterID int64) (*models.Question, error)
	QuestionByID(ctx context.Context, id int64) (*models.Question, error)

	StartApplication(ctx context.Context, applicant *models.Applicant, position string, firstQuestionID *int64) error
	SaveAnswer(ctx context.Context, rec postgres.AnswerRecord, adv postgres.Advance) error
	GetApplication(ctx context.Context, applicantID int64) (*models.Application, error)
	GetSettings(ctx context.Context) (*models.BotSettings, error)
}

// Sender is the outbound Telegram surface.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	SendPhoto(ctx context.Context, chatID int64, photoPath, caption string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
	RemoveKeyboard(ctx context.Context, chatID, messageID int64) error
}

// MediaStore persists applicant uploads and resolves stored paths.
type MediaStore interface {
	SavePhoto(ctx context.Context, dl media.Downloader, fileID, fieldName string) (string, error)
	Resolve(relPath string) string
}

// Sink receives completed applications. Delivery is best effort: a sink
// failure never blocks or rolls back the completion.
type Sink interface {
	ApplicationCompleted(ctx context.Context, applicant *models.Applicant, app *models.Application) error
}

// Engine runs the onboarding conversation: stage dispatch, answer
// validation, persistence and outbound rendering. One Engine serves all
// applicants; per-applicant handling is serialized.
type Engine struct {
	store      Store
	sender     Sender
	media      MediaStore
	downloader media.Downloader
	sink       Sink
	logger     logger.Logger
	locks      *applicantLocks
}

func NewEngine(store Store, sender Sender, mediaStore MediaStore, dl media.Downloader, sink Sink, log logger.Logger) *Engine {
	return &Engine{
		store:      store,
		sender:     sender,
		media:      mediaStore,
		downloader: dl,
		sink:       sink,
		logger:     log,
		locks:      newApplicantLocks(),
	}
}

// HandleUpdate dispatches one inbound update. Recoverable conditions are
// absorbed here (the applicant was told what to do); the returned error is
// for the transport to decide on redelivery.
func (e *Engine) HandleUpdate(ctx context.Context, update telegram.Update) error {
	kind, telegramID := classify(update)
	if kind == "" {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.UpdateDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()
	metrics.UpdatesProcessed.WithLabelValues(kind).Inc()

	lock := e.locks.forApplicant(telegramID)
	lock.Lock()
	defer lock.Unlock()

	var err error
	switch kind {
	case "command":
		err = e.handleStart(ctx, update.Message)
	case "photo":
		err = e.handlePhoto(ctx, update.Message)
	case "text":
		err = e.handleText(ctx, update.Message)
	case "callback":
		err = e.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		e.logger.WithError(err).Error("update handling failed", map[string]interface{}{
			"kind":       kind,
			"telegramId": telegramID,
		})
	}
	return err
}

func classify(update telegram.Update) (kind string, telegramID int64) {
	switch {
	case update.CallbackQuery != nil:
		return "callback", update.CallbackQuery.From.ID
	case update.Message != nil && len(update.Message.Photo) > 0:
		return "photo", update.Message.From.ID
	case update.Message != nil && strings.HasPrefix(update.Message.Text, "/start"):
		return "command", update.Message.From.ID
	case update.Message != nil && update.Message.Text != "":
		return "text", update.Message.From.ID
	}
	return "", 0
}

func identityOf(u telegram.User) models.Identity {
	return models.Identity{
		TelegramID: u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
}

// handleStart restarts the flow from the top. Completed applicants get a
// short acknowledgement and nothing else changes.
func (e *Engine) handleStart(ctx context.Context, msg *telegram.Message) error {
	applicant, err := e.store.GetOrCreateApplicant(ctx, identityOf(msg.From))
	if err != nil {
		return err
	}

	if applicant.IsRegistrationComplete {
		return e.sendMessage(ctx, msg.Chat.ID, alreadyCompleteMessage, nil)
	}

	if err := e.store.ResetApplicant(ctx, applicant.TelegramID); err != nil {
		return err
	}

	if err := e.sendWelcome(ctx, msg.Chat.ID); err != nil {
		return err
	}
	if err := e.sendMessage(ctx, msg.Chat.ID, teamQuestionMessage, teamKeyboard()); err != nil {
		return err
	}
	return e.store.SetStage(ctx, applicant.TelegramID, models.StageTeamMember)
}

// sendWelcome uses the admin-configured welcome image when one is present
// on disk, plain text otherwise.
func (e *Engine) sendWelcome(ctx context.Context, chatID int64) error {
	settings, err := e.store.GetSettings(ctx)
	if err != nil {
		e.logger.WithError(err).Warn("settings unavailable, sending plain welcome", nil)
		settings = &models.BotSettings{}
	}
	if settings.WelcomeImage != "" {
		q := &models.Question{Text: welcomeMessage, Image: settings.WelcomeImage}
		return e.sendQuestion(ctx, chatID, q)
	}
	return e.sendMessage(ctx, chatID, welcomeMessage, nil)
}

func (e *Engine) handleText(ctx context.Context, msg *telegram.Message) error {
	applicant, err := e.store.GetApplicant(ctx, msg.From.ID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeApplicantNotFound) {
			return e.sendMessage(ctx, msg.Chat.ID, applicantGoneMessage, nil)
		}
		return err
	}

	switch applicant.Stage {
	case models.StagePosition:
		return e.handlePosition(ctx, msg.Chat.ID, applicant, msg.Text)
	case models.StageQuestions:
		return e.handleAnswer(ctx, msg.Chat.ID, applicant, msg.Text, "")
	default:
		e.logger.Debug("text outside flow, ignoring", map[string]interface{}{
			"telegramId": applicant.TelegramID,
			"stage":      applicant.Stage,
		})
		return nil
	}
}

func (e *Engine) handlePhoto(ctx context.Context, msg *telegram.Message) error {
	applicant, err := e.store.GetApplicant(ctx, msg.From.ID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeApplicantNotFound) {
			return e.sendMessage(ctx, msg.Chat.ID, applicantGoneMessage, nil)
		}
		return err
	}
	if applicant.Stage != models.StageQuestions {
		e.logger.Debug("photo outside flow, ignoring", map[string]interface{}{
			"telegramId": applicant.TelegramID,
			"stage":      applicant.Stage,
		})
		return nil
	}

	question, err := e.currentQuestion(ctx, msg.Chat.ID, applicant)
	if question == nil || err != nil {
		return err
	}

	// Last variant is the original resolution.
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	photoPath, err := e.media.SavePhoto(ctx, e.downloader, fileID, question.FieldName)
	if err != nil {
		if sendErr := e.sendMessage(ctx, msg.Chat.ID, sessionErrorMessage, nil); sendErr != nil {
			e.logger.WithError(sendErr).Warn("error notice delivery failed", nil)
		}
		return err
	}

	return e.saveAndAdvance(ctx, msg.Chat.ID, applicant, question, "", photoPath)
}

func (e *Engine) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) error {
	if err := e.sender.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		e.logger.WithError(err).Warn("callback ack failed", nil)
	}
	if cb.Message == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID

	applicant, err := e.store.GetApplicant(ctx, cb.From.ID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeApplicantNotFound) {
			return e.sendMessage(ctx, chatID, applicantGoneMessage, nil)
		}
		return err
	}

	switch {
	case applicant.Stage == models.StageTeamMember && (cb.Data == callbackTeamYes || cb.Data == callbackTeamNo):
		return e.handleTeamAnswer(ctx, chatID, cb.Message.MessageID, applicant, cb.Data == callbackTeamYes)
	case applicant.Stage == models.StageQuestions && strings.HasPrefix(cb.Data, callbackChoicePrefix):
		question, err := e.currentQuestion(ctx, chatID, applicant)
		if question == nil || err != nil {
			return err
		}
		if err := e.sender.RemoveKeyboard(ctx, chatID, cb.Message.MessageID); err != nil {
			e.logger.WithError(err).Warn("keyboard removal failed", nil)
		}
		answer := strings.TrimPrefix(cb.Data, callbackChoicePrefix)
		return e.saveAndAdvance(ctx, chatID, applicant, question, answer, "")
	default:
		e.logger.Debug("callback outside flow, ignoring", map[string]interface{}{
			"telegramId": applicant.TelegramID,
			"stage":      applicant.Stage,
			"data":       cb.Data,
		})
		return nil
	}
}

func (e *Engine) handleTeamAnswer(ctx context.Context, chatID, messageID int64, applicant *models.Applicant, isTeamMember bool) error {
	if err := e.sender.RemoveKeyboard(ctx, chatID, messageID); err != nil {
		e.logger.WithError(err).Warn("keyboard removal failed", nil)
	}

	if !isTeamMember {
		if err := e.store.SetTeamMember(ctx, applicant.TelegramID, false, models.StageNone); err != nil {
			return err
		}
		return e.sendMessage(ctx, chatID, notTeamMemberMessage, nil)
	}

	if err := e.store.SetTeamMember(ctx, applicant.TelegramID, true, models.StagePosition); err != nil {
		return err
	}
	return e.sendMessage(ctx, chatID, positionQuestionMessage, nil)
}

// handlePosition records the position, opens the application and enters the
// question sequence. An empty catalog ends the flow right here.
func (e *Engine) handlePosition(ctx context.Context, chatID int64, applicant *models.Applicant, position string) error {
	first, err := e.store.FirstQuestion(ctx)
	if err != nil {
		return err
	}

	var firstID *int64
	if first != nil {
		firstID = &first.ID
	}
	if err := e.store.StartApplication(ctx, applicant, position, firstID); err != nil {
		return err
	}

	if err := e.sendMessage(ctx, chatID, missionMessage, nil); err != nil {
		return err
	}
	if first == nil {
		return e.sendMessage(ctx, chatID, noQuestionsMessage, nil)
	}
	return e.sendQuestion(ctx, chatID, first)
}

// currentQuestion loads the question the applicant is on, resetting the
// session when the pointer is gone or dangling. A nil question with nil
// error means the caller should stop: the applicant was already told.
func (e *Engine) currentQuestion(ctx context.Context, chatID int64, applicant *models.Applicant) (*models.Question, error) {
	if applicant.CurrentQuestionID == nil {
		if err := e.store.ResetApplicant(ctx, applicant.TelegramID); err != nil {
			return nil, err
		}
		return nil, e.sendMessage(ctx, chatID, sessionErrorMessage, nil)
	}

	question, err := e.store.QuestionByID(ctx, *applicant.CurrentQuestionID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeQuestionNotFound) {
			if resetErr := e.store.ResetApplicant(ctx, applicant.TelegramID); resetErr != nil {
				return nil, resetErr
			}
			return nil, e.sendMessage(ctx, chatID, questionGoneMessage, nil)
		}
		return nil, err
	}
	return question, nil
}

// handleAnswer validates a text answer against the current question type.
// Photo questions re-prompt without advancing; everything else accepts text.
func (e *Engine) handleAnswer(ctx context.Context, chatID int64, applicant *models.Applicant, text, photoPath string) error {
	question, err := e.currentQuestion(ctx, chatID, applicant)
	if question == nil || err != nil {
		return err
	}

	if question.Type == models.QuestionTypePhoto && photoPath == "" {
		metrics.AnswersRejected.Inc()
		e.logger.Debug("text rejected at photo question", map[string]interface{}{
			"telegramId": applicant.TelegramID,
			"questionId": question.ID,
		})
		return e.sendMessage(ctx, chatID, photoExpectedMessage, nil)
	}

	return e.saveAndAdvance(ctx, chatID, applicant, question, text, photoPath)
}

// saveAndAdvance persists the answer together with the flow movement, then
// renders whatever comes next: interstitial copy, the next question, or the
// completion sequence.
func (e *Engine) saveAndAdvance(ctx context.Context, chatID int64, applicant *models.Applicant, question *models.Question, text, photoPath string) error {
	next, err := e.store.NextQuestion(ctx, question.Order, question.ID)
	if err != nil {
		return err
	}

	rec := postgres.AnswerRecord{
		Applicant:  applicant,
		Question:   question,
		TextAnswer: text,
		PhotoPath:  photoPath,
	}
	adv := postgres.Advance{Complete: next == nil}
	if next != nil {
		adv.NextQuestionID = &next.ID
	}
	if err := e.store.SaveAnswer(ctx, rec, adv); err != nil {
		return err
	}

	if next == nil {
		return e.complete(ctx, chatID, applicant)
	}

	if msg, ok := postAnswerMessages[question.FieldName]; ok {
		if err := e.sendMessage(ctx, chatID, msg, nil); err != nil {
			return err
		}
	}
	if msg, ok := preQuestionMessages[next.FieldName]; ok {
		if err := e.sendMessage(ctx, chatID, msg, nil); err != nil {
			return err
		}
	}
	return e.sendQuestion(ctx, chatID, next)
}

func (e *Engine) complete(ctx context.Context, chatID int64, applicant *models.Applicant) error {
	metrics.RegistrationsCompleted.Inc()
	e.logger.Info("registration completed", map[string]interface{}{
		"telegramId": applicant.TelegramID,
	})

	if e.sink != nil {
		app, err := e.store.GetApplication(ctx, applicant.ID)
		if err != nil {
			e.logger.WithError(err).Warn("completed application fetch failed", nil)
		} else if err := e.sink.ApplicationCompleted(ctx, applicant, app); err != nil {
			metrics.SendFailures.WithLabelValues("notification").Inc()
			e.logger.WithError(err).Warn("completion notification failed", nil)
		}
	}

	return e.sendMessage(ctx, chatID, completionMessage, nil)
}

func (e *Engine) sendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error {
	if err := e.sender.SendMessage(ctx, chatID, text, keyboard); err != nil {
		metrics.SendFailures.WithLabelValues("message").Inc()
		return err
	}
	return nil
}

func (e *Engine) sendPhoto(ctx context.Context, chatID int64, photoPath, caption string, keyboard *telegram.InlineKeyboardMarkup) error {
	if err := e.sender.SendPhoto(ctx, chatID, photoPath, caption, keyboard); err != nil {
		metrics.SendFailures.WithLabelValues("photo").Inc()
		return err
	}
	return nil
}
