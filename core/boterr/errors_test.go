package boterr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorDescriptions(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{Environment("Bot token is not set"), "Environment error occurred while executing function: 'Bot token is not set'."},
		{Parsing("bad update", nil), "Error while parsing structure: 'bad update'."},
		{Delivery("send failed", nil), "Error while sending a network message: 'send failed'."},
		{Store("store down", nil), "Error while recording an application state: 'store down'."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}

func TestIsMatchesByKind(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("dispatch: %w", Store("FSM store is not available", cause))

	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrDelivery)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindStore, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(cause))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "delivery", KindDelivery.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
