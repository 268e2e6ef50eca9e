package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPromptIsFixed(t *testing.T) {
	first := BuildSystemPrompt()
	second := BuildSystemPrompt()

	assert.Equal(t, first, second)
	assert.Contains(t, first, "art historian")
	assert.Contains(t, first, "Past tense")
	assert.Contains(t, first, "Forbidden")
}

func TestBuildUserPromptIsDeterministic(t *testing.T) {
	meta := ArtworkMetadata{
		Title:  "Jazz Musicians",
		Year:   1966,
		Medium: "Gelatin silver print",
		Series: "Harlem Nights",
	}

	assert.Equal(t, BuildUserPrompt(meta), BuildUserPrompt(meta))
}

func TestBuildUserPromptWithFullMetadata(t *testing.T) {
	prompt := BuildUserPrompt(ArtworkMetadata{
		Title:  "Jazz Musicians",
		Year:   1966,
		Medium: "Gelatin silver print",
		Series: "Harlem Nights",
	})

	assert.Contains(t, prompt, "- Title: Jazz Musicians")
	assert.Contains(t, prompt, "- Year: 1966")
	assert.Contains(t, prompt, "- Medium: Gelatin silver print")
	assert.Contains(t, prompt, "- Series: Harlem Nights")
	assert.NotContains(t, prompt, "No metadata is available")
}

func TestBuildUserPromptOmitsMissingFields(t *testing.T) {
	prompt := BuildUserPrompt(ArtworkMetadata{Title: "Untitled Street Scene"})

	assert.Contains(t, prompt, "- Title: Untitled Street Scene")
	assert.NotContains(t, prompt, "- Year:")
	assert.NotContains(t, prompt, "- Medium:")
	assert.NotContains(t, prompt, "- Series:")
}

func TestBuildUserPromptWithoutMetadata(t *testing.T) {
	prompt := BuildUserPrompt(ArtworkMetadata{})

	assert.Contains(t, prompt, "No metadata is available for this work. Base everything on visual analysis only.")
	assert.NotContains(t, prompt, "- Title:")
}

func TestBuildUserPromptListsAllOutputFields(t *testing.T) {
	prompt := BuildUserPrompt(ArtworkMetadata{})

	for _, key := range []string{
		"description", "short_description", "seo_title",
		"alt_text", "suggested_tags", "confidence_score",
	} {
		assert.True(t, strings.Contains(prompt, key), "prompt should mention %s", key)
	}
	assert.Contains(t, prompt, "JSON object")
}
