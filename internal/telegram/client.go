package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// APIError describes a non-2xx reply from the Bot API.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error: status=%d description=%q", e.StatusCode, e.Description)
}

// Client is a minimal Telegram Bot API client. Outbound messages are sent
// with HTML parse mode, matching the question texts stored by the admin.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
}

func NewClient(baseURL, botToken string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 65 * time.Second},
		baseURL:    baseURL,
		botToken:   botToken,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s encode: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, method, result)
}

func decodeResponse(resp *http.Response, method string, result any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{StatusCode: resp.StatusCode, Description: string(payload)}
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("telegram %s decode: %w", method, err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram %s error: %s", method, parsed.Description)
	}
	if result != nil && parsed.Result != nil {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			return fmt.Errorf("telegram %s result decode: %w", method, err)
		}
	}
	return nil
}

// GetUpdates long-polls for new updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration, limit int) ([]Update, error) {
	payload := map[string]any{
		"allowed_updates": []string{"message", "callback_query"},
	}
	if offset > 0 {
		payload["offset"] = offset
	}
	if timeout > 0 {
		seconds := int(timeout.Round(time.Second).Seconds())
		if seconds > 50 {
			seconds = 50
		}
		payload["timeout"] = seconds
	}
	if limit > 0 {
		if limit > 100 {
			limit = 100
		}
		payload["limit"] = limit
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a text message, optionally with an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// SendPhoto uploads a local photo file with an optional caption and keyboard.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoPath, caption string, keyboard *InlineKeyboardMarkup) error {
	file, err := os.Open(photoPath)
	if err != nil {
		return fmt.Errorf("telegram sendPhoto open: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return fmt.Errorf("telegram sendPhoto encode: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("telegram sendPhoto encode: %w", err)
		}
		if err := w.WriteField("parse_mode", "HTML"); err != nil {
			return fmt.Errorf("telegram sendPhoto encode: %w", err)
		}
	}
	if keyboard != nil {
		markup, err := json.Marshal(keyboard)
		if err != nil {
			return fmt.Errorf("telegram sendPhoto encode: %w", err)
		}
		if err := w.WriteField("reply_markup", string(markup)); err != nil {
			return fmt.Errorf("telegram sendPhoto encode: %w", err)
		}
	}

	part, err := w.CreateFormFile("photo", filepath.Base(photoPath))
	if err != nil {
		return fmt.Errorf("telegram sendPhoto encode: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("telegram sendPhoto encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("telegram sendPhoto encode: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendPhoto", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("telegram sendPhoto request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, "sendPhoto", nil)
}

// AnswerCallbackQuery acknowledges an inline keyboard selection.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	payload := map[string]any{
		"callback_query_id": callbackQueryID,
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// RemoveKeyboard clears the inline keyboard of a previously sent message.
func (c *Client) RemoveKeyboard(ctx context.Context, chatID, messageID int64) error {
	payload := map[string]any{
		"chat_id":      chatID,
		"message_id":   messageID,
		"reply_markup": InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{}},
	}
	return c.call(ctx, "editMessageReplyMarkup", payload, nil)
}

// GetFile resolves the download path of a file hosted by Telegram.
func (c *Client) GetFile(ctx context.Context, fileID string) (File, error) {
	payload := map[string]any{
		"file_id": fileID,
	}
	var f File
	if err := c.call(ctx, "getFile", payload, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// DownloadFile fetches file content previously resolved via GetFile.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.botToken, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &APIError{StatusCode: resp.StatusCode, Description: string(payload)}
	}

	return io.ReadAll(resp.Body)
}
