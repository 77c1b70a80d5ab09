package entities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_AppliedMessageWindow(t *testing.T) {
	var s Session
	s.MarkApplied("m1", "m2")

	assert.True(t, s.WasApplied("m1"))
	assert.True(t, s.WasApplied("m2"))
	assert.False(t, s.WasApplied("m3"))
	assert.False(t, s.WasApplied(""))

	// Records written before the window existed only carry LastMessageID.
	s.LastMessageID = "m3"
	assert.True(t, s.WasApplied("m3"))

	for i := 0; i < appliedMessageWindow; i++ {
		s.MarkApplied(fmt.Sprintf("x%d", i))
	}
	assert.Len(t, s.AppliedMessageIDs, appliedMessageWindow)
	assert.False(t, s.WasApplied("m1"))
	assert.True(t, s.WasApplied(fmt.Sprintf("x%d", appliedMessageWindow-1)))
}
