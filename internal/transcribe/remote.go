package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteClient posts base64-encoded WAV audio to a remote transcription
// endpoint and normalizes the response to plain text.
type RemoteClient struct {
	URL    string
	APIKey string

	hc *http.Client
}

func NewRemoteClient(url, apiKey string) *RemoteClient {
	return &RemoteClient{
		URL:    url,
		APIKey: apiKey,
		hc:     &http.Client{Timeout: 60 * time.Second},
	}
}

type remoteRequest struct {
	Audio []string `json:"audio"`
}

// remoteResponse covers the shapes the endpoint has been observed to
// return: a direct text field, a list of predictions, or a list of
// segments with per-segment text.
type remoteResponse struct {
	Text        string   `json:"text"`
	Predictions []string `json:"predictions"`
	Segments    []struct {
		Text string `json:"text"`
	} `json:"segments"`
}

// Transcribe posts one audio chunk and returns the transcribed text.
func (c *RemoteClient) Transcribe(ctx context.Context, wav []byte) (string, error) {
	payload := remoteRequest{
		Audio: []string{base64.StdEncoding.EncodeToString(wav)},
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
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling transcription API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed remoteResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing transcription response: %w", err)
	}
	return normalizeText(parsed), nil
}

// normalizeText picks the most specific populated field: segments, then
// predictions, then the direct text field.
func normalizeText(r remoteResponse) string {
	if len(r.Segments) > 0 {
		parts := make([]string, 0, len(r.Segments))
		for _, s := range r.Segments {
			if t := strings.TrimSpace(s.Text); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, " ")
	}
	if len(r.Predictions) > 0 {
		parts := make([]string, 0, len(r.Predictions))
		for _, p := range r.Predictions {
			if t := strings.TrimSpace(p); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, " ")
	}
	return strings.TrimSpace(r.Text)
}

// Probe sends a short silent chunk to verify the endpoint is reachable
// and speaking the expected contract before a session commits to it.
func (c *RemoteClient) Probe(ctx context.Context, sampleRate int) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	silence := make([]int16, sampleRate/10) // 100ms of silence
	_, err := c.Transcribe(ctx, EncodeWAV(silence, sampleRate))
	return err
}
