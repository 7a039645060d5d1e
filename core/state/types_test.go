package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLabel(t *testing.T) {
	st, ok := FromLabel("playing")
	assert.True(t, ok)
	assert.Equal(t, StatePlaying, st)

	st, ok = FromLabel("")
	assert.True(t, ok)
	assert.Equal(t, StateNone, st)

	st, ok = FromLabel("Playing")
	assert.False(t, ok)
	assert.Equal(t, StateNone, st)
}

func TestStateLabelRoundTrip(t *testing.T) {
	for _, st := range []State{StateNone, StatePlaying} {
		got, ok := FromLabel(st.Label())
		assert.True(t, ok)
		assert.Equal(t, st, got)
	}
	assert.Equal(t, "none", StateNone.String())
	assert.Equal(t, "playing", StatePlaying.String())
}
