package translations

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHashContentIsDeterministic(t *testing.T) {
	assert.Equal(t, HashContent("A street scene."), HashContent("A street scene."))
	assert.Len(t, HashContent("A street scene."), 64)
}

func TestHashContentIsExact(t *testing.T) {
	base := HashContent("A street scene.")

	// No normalization: whitespace and case changes produce new keys.
	assert.NotEqual(t, base, HashContent("A street scene. "))
	assert.NotEqual(t, base, HashContent("a street scene."))
	assert.NotEqual(t, base, HashContent(""))
}

func TestSourceRef(t *testing.T) {
	provisional := ProvisionalSource()
	assert.True(t, provisional.Provisional())
	assert.Equal(t, uuid.Nil, provisional.ID())

	id := uuid.New()
	committed := CommittedSource(id)
	assert.False(t, committed.Provisional())
	assert.Equal(t, id, committed.ID())
}
