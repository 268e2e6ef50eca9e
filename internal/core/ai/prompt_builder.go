package ai

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt returns the fixed voice contract for the vision model.
// It never varies between requests.
func BuildSystemPrompt() string {
	return `You are an art historian writing catalogue entries for a photographic archive.

Voice and style rules:
- Academic but accessible. Write for an educated general audience, not specialists.
- Past tense throughout. The works are historical documents.
- Describe only what is visible in the image. Never speculate about the photographer's intent, the subjects' emotions, or events outside the frame.
- Forbidden: clichés ("a moment frozen in time", "captures the essence"), present-tense narration ("a man walks down the street"), flowery language ("breathtaking", "stunning", "mesmerizing"), and rhetorical questions.
- Weave in historical context (period, place, social circumstances) when the metadata or visible era indicators make it relevant, and omit it when they do not.`
}

// BuildUserPrompt assembles the per-request prompt from artwork metadata.
// It is pure and deterministic: identical metadata produces byte-identical
// output. Only metadata fields actually present are listed; when none are,
// the prompt says so explicitly.
func BuildUserPrompt(meta ArtworkMetadata) string {
	var b strings.Builder

	b.WriteString("Analyze this artwork image and generate catalogue content.\n\n")

	b.WriteString("ARTWORK METADATA:\n")
	var lines []string
	if meta.Title != "" {
		lines = append(lines, fmt.Sprintf("- Title: %s", meta.Title))
	}
	if meta.Year != 0 {
		lines = append(lines, fmt.Sprintf("- Year: %d", meta.Year))
	}
	if meta.Medium != "" {
		lines = append(lines, fmt.Sprintf("- Medium: %s", meta.Medium))
	}
	if meta.Series != "" {
		lines = append(lines, fmt.Sprintf("- Series: %s", meta.Series))
	}
	if len(lines) == 0 {
		b.WriteString("No metadata is available for this work. Base everything on visual analysis only.\n")
	} else {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	b.WriteString(`
VISUAL ANALYSIS — cover each of these dimensions:
1. Subjects: who or what is depicted, their arrangement and apparent activity.
2. Composition: framing, perspective, foreground/background relationships.
3. Lighting: quality, direction, contrast, and its effect on the scene.
4. Details: clothing, objects, signage, architecture, surface texture.
5. Era indicators: anything that dates the scene (vehicles, fashion, technology).

GENERATE THE FOLLOWING FIELDS:

1. description — 150 to 200 words of catalogue prose. Full sentences, past tense.
   Example: "Three musicians occupied a narrow stage beneath a single hanging lamp. The trumpeter, positioned at the left edge of the frame, leaned into..."

2. short_description — about 50 words summarizing the work for listing pages.
   Example: "A dimly lit jazz club scene showing three musicians mid-performance, photographed from the audience floor. Strong side lighting isolated the trumpeter against a dark background."

3. seo_title — at most 60 characters, title case, no trailing punctuation.
   Example: "Jazz Trio on Stage, New York Nightclub Scene"

4. alt_text — at most 125 characters of functional image description for screen readers.
   Example: "Black and white photo of three jazz musicians performing on a small stage under a single lamp"

5. suggested_tags — 5 to 8 lowercase keywords covering subject, style, and era.
   Example: ["jazz", "musicians", "nightclub", "black and white", "1960s", "performance"]

6. confidence_score — a number between 0 and 1 reflecting how completely the image and metadata support the generated text. Use lower values when the image is ambiguous or metadata is missing.

Return your answer as a JSON object with exactly these keys:
{
  "description": "...",
  "short_description": "...",
  "seo_title": "...",
  "alt_text": "...",
  "suggested_tags": ["..."],
  "confidence_score": 0.0
}

CONSTRAINTS:
- Respond with the JSON object only. No markdown fencing, no commentary.
- Do not invent facts that are not supported by the image or the metadata above.
- The confidence score must honestly reflect information completeness, not optimism.`)

	return b.String()
}
