package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchDecodesEvent(t *testing.T) {
	var got UserCreatedEvent
	err := dispatch([]byte(`{"user_id":"u-1","ip":"41.0.0.1"}`), func(_ context.Context, ev UserCreatedEvent) error {
		got = ev
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "41.0.0.1", got.IP)
}

func TestDispatchRejectsMalformedBody(t *testing.T) {
	called := false
	err := dispatch([]byte(`{not json`), func(_ context.Context, _ UserCreatedEvent) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestDispatchBoundsJobContext(t *testing.T) {
	err := dispatch([]byte(`{"user_id":"u-1","ip":"1.1.1.1"}`), func(ctx context.Context, _ UserCreatedEvent) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	})
	assert.NoError(t, err)
}
