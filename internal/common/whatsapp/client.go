// Package whatsapp is a client for the WhatsApp Cloud messaging API.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	crmhttp "realty-crm/internal/common/http"
)

type Config struct {
	BaseURL       string
	APIToken      string
	PhoneNumberID string
	Timeout       time.Duration
}

type Client struct {
	cfg  Config
	http *crmhttp.Client
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

var ErrEmptyResponse = errors.New("whatsapp: response carried no message id")

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("whatsapp base url is required")
	}
	if cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp phone number id is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{cfg: cfg, http: crmhttp.NewClient(cfg.Timeout)}, nil
}

// SendMessage sends a plain text message to a normalized phone number and
// returns the provider's message id.
func (c *Client) SendMessage(ctx context.Context, to, text string) (string, error) {
	msg := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
	}
	msg.Text.Body = text

	url := fmt.Sprintf("%s/%s/messages", c.cfg.BaseURL, c.cfg.PhoneNumberID)
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIToken}

	var resp sendResponse
	if err := c.http.PostJSON(ctx, url, headers, msg, &resp); err != nil {
		return "", fmt.Errorf("whatsapp send failed: %w", err)
	}
	if len(resp.Messages) == 0 || resp.Messages[0].ID == "" {
		return "", ErrEmptyResponse
	}
	return resp.Messages[0].ID, nil
}
