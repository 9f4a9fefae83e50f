// Package summarize calls a chat-completions style endpoint to turn a
// meeting transcript into a summary.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	URL    string
	APIKey string
	Model  string

	hc *http.Client
}

func NewClient(url, apiKey, model string) *Client {
	return &Client{
		URL:    url,
		APIKey: apiKey,
		Model:  model,
		hc:     &http.Client{Timeout: 2 * time.Minute},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

// response covers both the choices[0].message.content shape and the
// alternate predictions[0] shape; content itself may be a plain string
// or a list of typed content blocks.
type response struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Predictions []json.RawMessage `json:"predictions"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Summarize sends the prompt as the system message and the templated
// transcript as the user message, returning the normalized summary text.
func (c *Client) Summarize(ctx context.Context, systemPrompt, transcript string) (string, error) {
	payload := request{
		Model: c.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Please summarize the following meeting transcript accordingly:\n\n" + transcript},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling summarization API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarization API error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing summarization response: %w", err)
	}

	summary := normalize(parsed)
	if summary == "" {
		return "", fmt.Errorf("empty summarization response")
	}
	return summary, nil
}

func normalize(r response) string {
	if len(r.Choices) > 0 {
		return decodeContent(r.Choices[0].Message.Content)
	}
	if len(r.Predictions) > 0 {
		return decodeContent(r.Predictions[0])
	}
	return ""
}

// decodeContent accepts either a JSON string or a list of typed content
// blocks whose text fields are concatenated.
func decodeContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var b strings.Builder
		for _, block := range blocks {
			b.WriteString(block.Text)
		}
		return strings.TrimSpace(b.String())
	}

	return ""
}
