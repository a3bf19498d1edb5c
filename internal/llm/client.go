package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resume-parser/pkg/httpclient"
)

var (
	// ErrQuota signals API quota or rate-limit exhaustion. Not retryable.
	ErrQuota = errors.New("API quota exceeded")
	// ErrTimeout signals a deadline or transport timeout. Retryable.
	ErrTimeout = errors.New("model request timed out")
	// ErrSafety signals a content-safety block on the prompt or response.
	ErrSafety = errors.New("content safety filter triggered")
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Gemini generateContent endpoint. Generation parameters
// lean deterministic and the safety thresholds are relaxed across all
// categories: the input is resume text, so over-blocking is the failure mode
// worth suppressing, not under-blocking.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	httpDo  *httpclient.Client
}

func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpDo:  httpclient.NewClient(20 * time.Second),
	}
}

type generateRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig config          `json:"generationConfig"`
	SafetySettings   []safetySetting `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type config struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

var relaxedSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
}

// GenerateContent sends a single prompt and returns the model's text reply.
// Failures are classified into ErrQuota, ErrTimeout, ErrSafety, or a generic
// error so the caller can apply its retry policy per category.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: config{
			Temperature:     0.1,
			TopP:            0.8,
			TopK:            20,
			MaxOutputTokens: 2048,
		},
		SafetySettings: relaxedSafetySettings,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpDo.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode Gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.Error.Message != "" {
		return "", classifyAPIError(resp.StatusCode, result.Error.Status, result.Error.Message)
	}

	if result.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ErrSafety, result.PromptFeedback.BlockReason)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned by Gemini")
	}
	if result.Candidates[0].FinishReason == "SAFETY" {
		return "", fmt.Errorf("%w: response blocked", ErrSafety)
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return sb.String(), nil
}

func classifyAPIError(statusCode int, status, message string) error {
	lower := strings.ToLower(message)
	switch {
	case statusCode == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED" ||
		strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit"):
		return fmt.Errorf("%w: %s", ErrQuota, message)
	case statusCode == http.StatusGatewayTimeout || status == "DEADLINE_EXCEEDED" ||
		strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout"):
		return fmt.Errorf("%w: %s", ErrTimeout, message)
	case strings.Contains(lower, "safety"):
		return fmt.Errorf("%w: %s", ErrSafety, message)
	default:
		return fmt.Errorf("Gemini API error %d: %s", statusCode, message)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
