package sets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thiblahute/pitivi-old/internal/util/sets"
)

func TestSet(t *testing.T) {
	s := sets.New("a", "b")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))

	s.Add("c")
	assert.True(t, s.Has("c"))

	// Re-adding is a no-op, not a growth.
	s.Add("c")
	assert.Len(t, s, 3)
}
