package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ArtVaultCo/archive-service/config"
)

// VisionResult is the raw outcome of one vision call: the model's text
// content plus the token usage the API reported (zero when omitted).
type VisionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// VisionClient issues a single multimodal chat-completion request.
type VisionClient interface {
	DescribeImage(ctx context.Context, systemPrompt, userPrompt, imageURL string) (*VisionResult, error)
}

type openAIClient struct {
	config     config.OpenAIConfig
	httpClient *http.Client
	logger     *slog.Logger
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is a plain string for the system turn and a list of content
	// parts (text + image_url) for the user turn.
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewOpenAIClient creates the vision client. It fails when no API key is
// configured; callers defer construction until the first generation so a
// missing key never breaks startup.
func NewOpenAIClient(cfg config.OpenAIConfig, logger *slog.Logger) (VisionClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vision model API key is not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}

	return &openAIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // vision requests on large images are slow
		},
		logger: logger,
	}, nil
}

func (c *openAIClient) DescribeImage(ctx context.Context, systemPrompt, userPrompt, imgURL string) (*VisionResult, error) {
	reqBody := chatCompletionRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: imgURL, Detail: "high"}},
			}},
		},
		MaxTokens:      c.config.MaxTokens,
		Temperature:    c.config.Temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create vision request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make vision request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vision response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API error: %d - %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vision response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in vision response")
	}

	c.logger.Debug("Vision request completed",
		"model", c.config.Model,
		"finish_reason", chatResp.Choices[0].FinishReason,
		"prompt_tokens", chatResp.Usage.PromptTokens,
		"completion_tokens", chatResp.Usage.CompletionTokens)

	return &VisionResult{
		Content:          chatResp.Choices[0].Message.Content,
		PromptTokens:     chatResp.Usage.PromptTokens,
		CompletionTokens: chatResp.Usage.CompletionTokens,
	}, nil
}
