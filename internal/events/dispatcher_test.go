package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcher(t *testing.T) {
	t.Run("delivers to subscribers of the published type only", func(t *testing.T) {
		d := NewInMemoryDispatcher()

		var got []Event
		d.Subscribe(EventLoginSucceeded, func(_ context.Context, e Event) error {
			got = append(got, e)
			return nil
		})
		d.Subscribe(EventAccessDenied, func(_ context.Context, e Event) error {
			t.Fatal("handler for another type must not fire")
			return nil
		})

		err := d.Publish(context.Background(), Event{Type: EventLoginSucceeded, SubjectID: "1"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].SubjectID)
	})

	t.Run("a failing handler does not block later handlers", func(t *testing.T) {
		d := NewInMemoryDispatcher()

		d.Subscribe(EventLoginFailed, func(context.Context, Event) error {
			return errors.New("boom")
		})
		fired := false
		d.Subscribe(EventLoginFailed, func(context.Context, Event) error {
			fired = true
			return nil
		})

		require.NoError(t, d.Publish(context.Background(), Event{Type: EventLoginFailed}))
		assert.True(t, fired)
	})

	t.Run("publishing with no subscribers is a no-op", func(t *testing.T) {
		d := NewInMemoryDispatcher()
		assert.NoError(t, d.Publish(context.Background(), Event{Type: EventUpstreamError}))
	})
}
