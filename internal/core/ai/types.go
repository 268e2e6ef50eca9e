package ai

import (
	"context"
)

// ArtworkMetadata is the optional curatorial context attached to a
// generation request. Zero values mean the field is unknown and the
// model works from visual analysis alone.
type ArtworkMetadata struct {
	Title  string `json:"title,omitempty"`
	Year   int    `json:"year,omitempty"`
	Medium string `json:"medium,omitempty"`
	Series string `json:"series,omitempty"`
}

// GeneratedContent is the structured output of the vision model for one
// artwork image. It is always fully populated: parse failures degrade to
// empty strings and a zero confidence score, never to missing fields.
type GeneratedContent struct {
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	SEOTitle         string   `json:"seo_title"`
	AltText          string   `json:"alt_text"`
	SuggestedTags    []string `json:"suggested_tags"`
	ConfidenceScore  float64  `json:"confidence_score"`
}

// TranslatedContent holds the four textual fields of GeneratedContent in
// one target language. Tags and confidence are not translated.
type TranslatedContent struct {
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	SEOTitle         string `json:"seo_title"`
	AltText          string `json:"alt_text"`
}

// Translations carries both target languages of the archive's public site.
type Translations struct {
	FR TranslatedContent `json:"fr"`
	JA TranslatedContent `json:"ja"`
}

// GenerationResult is the full outcome of one generation request.
// Translations is always present; when translation was skipped or failed
// it contains empty-string content for both languages.
type GenerationResult struct {
	GeneratedContent
	Translations Translations `json:"translations"`
	TokensUsed   int          `json:"tokens_used"`
	CostUSD      float64      `json:"cost_usd"`
}

// GenerationOptions are the caller-facing parameters of a generation
// request. IncludeTranslations defaults to true when nil.
type GenerationOptions struct {
	ImageURL            string          `json:"image_url"`
	Metadata            ArtworkMetadata `json:"metadata"`
	IncludeTranslations *bool           `json:"include_translations,omitempty"`
}

func (o GenerationOptions) includeTranslations() bool {
	return o.IncludeTranslations == nil || *o.IncludeTranslations
}

// ParseResult tags the outcome of parsing the vision response. Degraded
// means the payload could not be parsed at all and Content is the empty
// fallback; a partially valid payload is not degraded, its missing fields
// simply default per-field.
type ParseResult struct {
	Content  GeneratedContent
	Degraded bool
	Reason   string
}

// TranslationOutcome tags the outcome of the translation fan-out.
// Degraded means both languages fell back to empty content.
type TranslationOutcome struct {
	Translations Translations
	Degraded     bool
	Reason       string
}

// EmptyContent returns the all-empty GeneratedContent used when the vision
// response cannot be parsed.
func EmptyContent() GeneratedContent {
	return GeneratedContent{SuggestedTags: []string{}}
}

// EmptyTranslations returns the empty-string translation structure used
// when translation is skipped or fails.
func EmptyTranslations() Translations {
	return Translations{}
}

// ArtworkTranslator translates the textual fields of generated content
// into one target language, consulting the translation cache first.
// Implemented by the translations service.
type ArtworkTranslator interface {
	TranslateArtworkContent(ctx context.Context, content GeneratedContent, targetLanguage string) (TranslatedContent, error)
}
