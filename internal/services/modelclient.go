package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"document-analyzer/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// ModelClient issues a single chat-completion style POST to one candidate
// endpoint. It never retries a URL; trying the next candidate is the
// orchestrator's job.
type ModelClient struct {
	httpClient *http.Client
	model      string
}

func NewModelClient(model string) *ModelClient {
	return &ModelClient{
		// Per-call deadlines come from the request context.
		httpClient: &http.Client{},
		model:      model,
	}
}

// promptPayload is the prompt-style request body used by the analysis path.
type promptPayload struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options promptOptions `json:"options"`
}

type promptOptions struct {
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// chatPayload is the OpenAI-compatible request body used by the chat path.
type chatPayload struct {
	Model       string                         `json:"model"`
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	Temperature float32                        `json:"temperature"`
	MaxTokens   int                            `json:"max_tokens"`
	Stream      bool                           `json:"stream"`
}

// completionResponse covers the three response shapes the model runner is
// known to produce.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Response string `json:"response"`
	Result   string `json:"result"`
}

// Complete sends a raw prompt to one candidate URL and returns the
// normalized completion text.
func (c *ModelClient) Complete(ctx context.Context, candidateURL, prompt string) (string, error) {
	payload := promptPayload{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: promptOptions{
			Temperature: 0.7,
			MaxTokens:   1024,
		},
	}
	return c.post(ctx, candidateURL, payload)
}

// Chat sends an ordered message sequence to one candidate URL and returns
// the normalized completion text.
func (c *ModelClient) Chat(ctx context.Context, candidateURL string, messages []openai.ChatCompletionMessage) (string, error) {
	payload := chatPayload{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1024,
		Stream:      false,
	}
	return c.post(ctx, candidateURL, payload)
}

func (c *ModelClient) post(ctx context.Context, candidateURL string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &ModelCallError{URL: candidateURL, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, candidateURL, bytes.NewReader(body))
	if err != nil {
		return "", &ModelCallError{URL: candidateURL, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ModelCallError{URL: candidateURL, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ModelCallError{URL: candidateURL, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ModelCallError{
			URL:        candidateURL,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(respBody), 200),
		}
	}

	return c.normalize(candidateURL, respBody), nil
}

// normalize extracts the completion text, checking the OpenAI choices shape,
// then the response field, then the result field. If none match, the whole
// body is returned verbatim so the answer is never lost, at the cost of
// leaking raw structure to the caller.
func (c *ModelClient) normalize(candidateURL string, body []byte) string {
	var decoded completionResponse
	if err := json.Unmarshal(body, &decoded); err == nil {
		if len(decoded.Choices) > 0 && decoded.Choices[0].Message.Content != "" {
			return decoded.Choices[0].Message.Content
		}
		if decoded.Response != "" {
			return decoded.Response
		}
		if decoded.Result != "" {
			return decoded.Result
		}
	}

	logger.WithFields(logrus.Fields{
		"url":        candidateURL,
		"bodyLength": len(body),
	}).Warn("Model response did not match any known shape, returning raw body")

	return string(body)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary; error bodies can contain multibyte text.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
