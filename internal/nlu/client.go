// syndicare/internal/nlu/client.go

// Package nlu wraps the external intent-classification service consumed by
// the chatbot. The service is a black box: given free text it answers with an
// intent label, a confidence score and a canned reply.
package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Response is the classifier's answer for one message.
type Response struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reply      string  `json:"reply"`
}

type classifyRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Classify sends the message to the classifier and decodes its verdict.
func (c *Client) Classify(ctx context.Context, text, sessionID string) (*Response, error) {
	body, err := json.Marshal(classifyRequest{Text: text, SessionID: sessionID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nlu service returned status %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode nlu response: %w", err)
	}
	return &result, nil
}
