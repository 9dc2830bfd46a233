// Package teams posts MessageCard payloads to Microsoft Teams incoming
// webhooks.
package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

type messageCard struct {
	Type       string            `json:"@type"`
	Context    string            `json:"@context"`
	ThemeColor string            `json:"themeColor"`
	Summary    string            `json:"summary"`
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Actions    []potentialAction `json:"potentialAction,omitempty"`
}

type potentialAction struct {
	Type    string         `json:"@type"`
	Name    string         `json:"name"`
	Targets []actionTarget `json:"targets"`
}

type actionTarget struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: requestTimeout}}
}

// Send posts one notification card. A non-2xx response is an error so the
// outbox can retry the delivery.
func (c *Client) Send(ctx context.Context, webhookURL, title, text string, link *string) error {
	card := messageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: "0076D7",
		Summary:    title,
		Title:      title,
		Text:       text,
	}
	if link != nil {
		card.Actions = []potentialAction{{
			Type:    "OpenUri",
			Name:    "Im CRM öffnen",
			Targets: []actionTarget{{OS: "default", URI: *link}},
		}}
	}

	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal message card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
