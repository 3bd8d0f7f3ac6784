// Package llm implements the model gateway against the Google Gemini
// generateContent REST API.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/medinsight/medinsight-api/interfaces"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrEmptyResponse reports that the provider answered successfully but
// produced no usable text. Callers treat it separately from transport
// failures.
var ErrEmptyResponse = errors.New("empty response from model")

// Client calls the Gemini generateContent endpoint. It implements
// interfaces.ModelGateway.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ interfaces.ModelGateway = (*Client)(nil)

func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// Generate sends one user turn built from parts and returns the
// concatenated text of the first candidate. Binary parts are inlined as
// base64. An HTTP-level success with no candidate text yields
// ErrEmptyResponse.
func (c *Client) Generate(ctx context.Context, parts []interfaces.ContentPart) (string, error) {
	reqParts := make([]part, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			reqParts = append(reqParts, part{InlineData: &inlineData{
				MIMEType: p.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		reqParts = append(reqParts, part{Text: p.Text})
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: reqParts}},
	})
	if err != nil {
		return "", err
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", decodeAPIError(httpResp)
	}

	var response generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&response); err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var text string
	for _, p := range response.Candidates[0].Content.Parts {
		text += p.Text
	}
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// decodeAPIError prefers the provider's structured error message over the
// raw body.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errorResp map[string]any
	if err := json.Unmarshal(body, &errorResp); err == nil {
		if errorObj, ok := errorResp["error"].(map[string]any); ok {
			return fmt.Errorf("gemini API error (%d): %v", resp.StatusCode, errorObj["message"])
		}
	}
	return fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, string(body))
}
