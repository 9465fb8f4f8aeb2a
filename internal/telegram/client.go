// Package telegram is a thin client for the Telegram Bot API: send a
// message, identify the bot, and long-poll for updates. It is the single
// outbound chat capability shared by the command loop and the webhook
// notifier, and is safe for concurrent use.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// maxMessageLen is Telegram's hard limit on message text.
const maxMessageLen = 4096

// Client talks to the Telegram Bot API over HTTP.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		// Long polls hold the connection open for up to 60s; leave headroom.
		client: &http.Client{Timeout: 70 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

// SendMessage sends text to chatID with Markdown parsing. Text over the
// API limit is truncated rather than rejected.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if len(text) > maxMessageLen {
		text = text[:maxMessageLen-3] + "..."
	}
	payload := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": true,
	}
	var discard json.RawMessage
	return c.call(ctx, "sendMessage", payload, &discard)
}

// GetMe returns the bot's own account. Used as a credential check.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var u User
	if err := c.call(ctx, "getMe", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUpdates long-polls for updates after offset, holding the request
// open for up to timeout seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// call POSTs one Bot API method and decodes the result envelope.
func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("encoding %s payload: %w", method, err)
		}
	}
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram %s failed: %s (code %d)", method, envelope.Description, envelope.ErrorCode)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}
