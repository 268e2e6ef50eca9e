package translations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ArtVaultCo/archive-service/config"
)

// Provider translates a single string into one target language.
// Implemented by DeepLClient; tests substitute fakes.
type Provider interface {
	TranslateText(ctx context.Context, text, targetLanguage string) (string, error)
}

// DeepLClient is the translation provider adapter. When no API key is
// configured it degrades to a passthrough rather than erroring: the
// archive keeps working in English-only mode.
type DeepLClient struct {
	config     config.DeepLConfig
	httpClient *http.Client
	logger     *slog.Logger
}

type deepLRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	SourceLang string   `json:"source_lang"`
}

type deepLResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

func NewDeepLClient(cfg config.DeepLConfig, logger *slog.Logger) *DeepLClient {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api-free.deepl.com/v2/translate"
	}

	return &DeepLClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// TranslateText translates text from English into targetLanguage. Empty
// input or a missing credential returns the input unchanged.
func (c *DeepLClient) TranslateText(ctx context.Context, text, targetLanguage string) (string, error) {
	if text == "" || c.config.APIKey == "" {
		return text, nil
	}

	reqBody := deepLRequest{
		Text:       []string{text},
		TargetLang: mapTargetLanguage(targetLanguage),
		SourceLang: "EN",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.APIURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create translation request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make translation request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("translation API error: %d - %s", resp.StatusCode, string(body))
	}

	var deepLResp deepLResponse
	if err := json.Unmarshal(body, &deepLResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal translation response: %w", err)
	}

	if len(deepLResp.Translations) == 0 {
		return "", fmt.Errorf("no translations in provider response")
	}

	c.logger.Debug("Translated text",
		"target_language", targetLanguage,
		"source_length", len(text),
		"translated_length", len(deepLResp.Translations[0].Text))

	return deepLResp.Translations[0].Text, nil
}

// mapTargetLanguage maps the archive's lowercase language codes to the
// provider's uppercase codes.
func mapTargetLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "fr":
		return "FR"
	case "ja", "jp":
		return "JA"
	default:
		return strings.ToUpper(strings.TrimSpace(lang))
	}
}
