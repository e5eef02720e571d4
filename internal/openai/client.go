package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oukeidos/hanmd/internal/apperrors"
	"github.com/oukeidos/hanmd/internal/httpclient"
	"github.com/oukeidos/hanmd/internal/llm"
)

// requestData represents the request body for the OpenAI Responses API.
type requestData struct {
	Model           string      `json:"model"`
	Input           []inputItem `json:"input"`
	MaxOutputTokens int         `json:"max_output_tokens,omitempty"`
}

type inputItem struct {
	Type    string `json:"type"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// responseData represents the simplified response body from the OpenAI Responses API.
type responseData struct {
	ID                string             `json:"id"`
	Status            string             `json:"status"`
	IncompleteDetails *incompleteDetails `json:"incomplete_details,omitempty"`
	Output            []outputItem       `json:"output"`
	Usage             usage              `json:"usage"`
}

type incompleteDetails struct {
	Reason string `json:"reason"`
}

type outputItem struct {
	Type    string            `json:"type"`
	Status  string            `json:"status,omitempty"`
	Role    string            `json:"role,omitempty"`
	Content []responseContent `json:"content,omitempty"`
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type errorEnvelope struct {
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    interface{} `json:"code"`
}

func (e errorDetails) codeString() string {
	if e.Code == nil {
		return ""
	}
	return fmt.Sprint(e.Code)
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	usage   llm.Usage
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
	}
}

// GetModelID returns the configured model identifier.
func (c *Client) GetModelID() string {
	return c.model
}

var (
	_ llm.Invoker       = (*Client)(nil)
	_ llm.UsageReporter = (*Client)(nil)
)

// Invoke sends a plain-text prompt to OpenAI and returns the response text.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	req := requestData{
		Model: c.model,
		Input: []inputItem{
			{Type: "message", Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/responses"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := httpclient.GetDefaultClient()
	body, resp, err := httpclient.DoAndRead(client, httpReq)
	if err != nil {
		return "", apperrors.New(
			apperrors.KindTransient,
			"OpenAI request failed due to a temporary network/runtime error.",
			fmt.Errorf("request failed: %w", err),
		)
	}

	if resp.StatusCode != http.StatusOK {
		details := parseErrorDetails(body)
		return "", classifyOpenAIError(resp.StatusCode, resp.Status, details)
	}

	var result responseData
	if err := json.Unmarshal(body, &result); err != nil {
		return "", apperrors.New(
			apperrors.KindValidation,
			"OpenAI response format was invalid.",
			fmt.Errorf("failed to decode response: %w", err),
		)
	}

	slog.Debug("OpenAI API Response", "status", resp.Status, "usage_total", result.Usage.TotalTokens, "response_id", result.ID)

	if result.Status == "incomplete" && result.IncompleteDetails != nil {
		return "", apperrors.New(
			apperrors.KindValidation,
			fmt.Sprintf("OpenAI response was incomplete (%s).", result.IncompleteDetails.Reason),
			fmt.Errorf("incomplete response: %s", result.IncompleteDetails.Reason),
		)
	}

	text := extractOutputText(result)
	if text == "" {
		return "", apperrors.New(
			apperrors.KindValidation,
			"OpenAI response contained no output text.",
			fmt.Errorf("no output_text content in response %s", result.ID),
		)
	}

	c.usage.Add(llm.Usage{
		PromptTokens:     result.Usage.InputTokens,
		CompletionTokens: result.Usage.OutputTokens,
		TotalTokens:      result.Usage.TotalTokens,
	})

	return text, nil
}

// Usage returns the token usage accumulated across all calls on this client.
func (c *Client) Usage() llm.Usage {
	return c.usage
}

func extractOutputText(result responseData) string {
	var sb strings.Builder
	for _, item := range result.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type == "output_text" {
				sb.WriteString(content.Text)
			}
		}
	}
	return sb.String()
}

func parseErrorDetails(body []byte) errorDetails {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errorDetails{}
	}
	return envelope.Error
}

func classifyOpenAIError(statusCode int, status string, details errorDetails) error {
	code := details.codeString()
	cause := fmt.Errorf("openai status=%s type=%s code=%s message=%s", status, details.Type, code, details.Message)

	switch statusCode {
	case http.StatusTooManyRequests:
		return apperrors.New(
			apperrors.KindRateLimit,
			"OpenAI API rate limit exceeded (429): please try again later.",
			cause,
		)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.New(
			apperrors.KindAuth,
			fmt.Sprintf("OpenAI API authentication/authorization failed (%d): please verify your API key and permissions.", statusCode),
			cause,
		)
	case http.StatusNotFound:
		if isOpenAIModelNotFound(details) {
			return apperrors.New(
				apperrors.KindBadRequest,
				"The model does not exist or you do not have access to it.",
				cause,
			)
		}
		return apperrors.New(
			apperrors.KindBadRequest,
			"OpenAI resource not found (404).",
			cause,
		)
	default:
		if statusCode >= 500 {
			return apperrors.New(
				apperrors.KindTransient,
				fmt.Sprintf("OpenAI server error (%d): please try again later.", statusCode),
				cause,
			)
		}
		return apperrors.New(
			apperrors.KindBadRequest,
			fmt.Sprintf("OpenAI API error (%d): %s", statusCode, status),
			cause,
		)
	}
}

func isOpenAIModelNotFound(details errorDetails) bool {
	needle := strings.ToLower(details.codeString() + " " + details.Type + " " + details.Message)
	if strings.Contains(needle, "model_not_found") {
		return true
	}
	return strings.Contains(needle, "does not exist or you do not have access to it")
}
