// Package telegram delivers report cards through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

const (
	defaultTimeout = 60 * time.Second

	// maxErrorBody bounds how much of an error response is quoted.
	maxErrorBody = 512
)

// placeholder values shipped in example configurations
var placeholders = map[string]bool{
	"your_bot_token_here": true,
	"your_chat_id_here":   true,
}

// ErrNotConfigured is returned by [New] for missing or placeholder credentials.
var ErrNotConfigured = errors.New("telegram is not configured")

// Client sends photos to one chat.
type Client struct {
	apiURL string
	token  string
	chatID string
	http   *http.Client
}

// New creates a [Client]. An empty apiURL uses [DefaultAPIURL].
//
// Returns an error wrapping [ErrNotConfigured] if the token or chat ID is
// empty or still a placeholder.
func New(apiURL, token, chatID string) (*Client, error) {
	token = strings.TrimSpace(token)
	chatID = strings.TrimSpace(chatID)

	if token == "" || placeholders[token] {
		return nil, fmt.Errorf("%w: bot token is not set", ErrNotConfigured)
	}
	if chatID == "" || placeholders[chatID] {
		return nil, fmt.Errorf("%w: chat id is not set", ErrNotConfigured)
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		token:  token,
		chatID: chatID,
		http:   &http.Client{Timeout: defaultTimeout},
	}, nil
}

// apiResponse is the envelope of every Bot API reply.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendPhoto uploads the image at path to the chat, with an optional caption.
//
// Errors never contain the bot token.
func (c *Client) SendPhoto(ctx context.Context, path, caption string) error {
	photo, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", c.chatID); err != nil {
		return err
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(photo); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendPhoto"), &body)
	if err != nil {
		return c.redact(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sendPhoto: %w", c.redact(err))
	}
	defer res.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	var reply apiResponse
	_ = json.Unmarshal(data, &reply)

	if res.StatusCode < 200 || res.StatusCode >= 300 || !reply.OK {
		msg := reply.Description
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		msg = truncate(strings.ReplaceAll(msg, c.token, "<token>"), maxErrorBody)
		if msg != "" {
			return fmt.Errorf("sendPhoto failed: %s: %s", res.Status, msg)
		}
		return fmt.Errorf("sendPhoto failed: %s", res.Status)
	}

	return nil
}

func (c *Client) methodURL(method string) string {
	return c.apiURL + "/bot" + c.token + "/" + method
}

// redact removes the token from err, which may embed the request URL.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %s", urlErr.Op, c.apiURL+"/bot<token>/...",
			strings.ReplaceAll(urlErr.Err.Error(), c.token, "<token>"))
	}
	return errors.New(strings.ReplaceAll(err.Error(), c.token, "<token>"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
