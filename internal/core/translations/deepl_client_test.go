package translations

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArtVaultCo/archive-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTranslateTextPassthroughWithoutAPIKey(t *testing.T) {
	client := NewDeepLClient(config.DeepLConfig{}, discardLogger())

	translated, err := client.TranslateText(context.Background(), "A street scene.", "fr")

	require.NoError(t, err)
	assert.Equal(t, "A street scene.", translated)
}

func TestTranslateTextPassthroughEmptyInput(t *testing.T) {
	client := NewDeepLClient(config.DeepLConfig{APIKey: "test-key"}, discardLogger())

	translated, err := client.TranslateText(context.Background(), "", "fr")

	require.NoError(t, err)
	assert.Empty(t, translated)
}

func TestTranslateText(t *testing.T) {
	var captured deepLRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DeepL-Auth-Key test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"translations": []map[string]string{{"text": "Une scène de rue."}},
		})
	}))
	defer server.Close()

	client := NewDeepLClient(config.DeepLConfig{APIKey: "test-key", APIURL: server.URL}, discardLogger())

	translated, err := client.TranslateText(context.Background(), "A street scene.", "fr")

	require.NoError(t, err)
	assert.Equal(t, "Une scène de rue.", translated)
	assert.Equal(t, []string{"A street scene."}, captured.Text)
	assert.Equal(t, "FR", captured.TargetLang)
	assert.Equal(t, "EN", captured.SourceLang)
}

func TestTranslateTextAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("quota exceeded"))
	}))
	defer server.Close()

	client := NewDeepLClient(config.DeepLConfig{APIKey: "test-key", APIURL: server.URL}, discardLogger())

	_, err := client.TranslateText(context.Background(), "A street scene.", "fr")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "translation API error: 429")
}

func TestTranslateTextEmptyProviderResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"translations": []map[string]string{}})
	}))
	defer server.Close()

	client := NewDeepLClient(config.DeepLConfig{APIKey: "test-key", APIURL: server.URL}, discardLogger())

	_, err := client.TranslateText(context.Background(), "A street scene.", "fr")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no translations")
}

func TestMapTargetLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fr", "FR"},
		{"FR", "FR"},
		{"ja", "JA"},
		{"jp", "JA"},
		{" ja ", "JA"},
		{"de", "DE"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapTargetLanguage(tt.in), "input %q", tt.in)
	}
}
