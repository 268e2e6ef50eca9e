package translations

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

const sourceTableArtworks = "artworks"

// SourceRef identifies which entity a cache row belongs to. Rows written
// during generation are provisional: the content exists but no curator has
// attached it to an artwork yet. Applying generated content re-inserts the
// same rows under the committed artwork id; the provisional rows are left
// in place, not migrated.
type SourceRef struct {
	id uuid.UUID
}

// ProvisionalSource returns the sentinel ref for content that is not yet
// attached to a real artwork.
func ProvisionalSource() SourceRef {
	return SourceRef{id: uuid.Nil}
}

// CommittedSource returns the ref for content saved to a real artwork.
func CommittedSource(artworkID uuid.UUID) SourceRef {
	return SourceRef{id: artworkID}
}

func (r SourceRef) ID() uuid.UUID {
	return r.id
}

func (r SourceRef) Provisional() bool {
	return r.id == uuid.Nil
}

// CacheEntry is one persisted translation row. The composite key
// (source_table, source_id, source_field, target_language) is unique;
// concurrent writers resolve last-write-wins via upsert.
type CacheEntry struct {
	SourceTable        string
	SourceID           uuid.UUID
	SourceField        string
	SourceHash         string
	TargetLanguage     string
	TranslatedContent  string
	TranslationService string
}

// HashContent returns the deterministic fingerprint of the exact source
// text used as a cache key component. No normalization: a one-character
// edit invalidates the cached translation.
func HashContent(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
