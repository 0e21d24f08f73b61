package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesOnlyMatchingSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var created, updated int
	dispatcher.Subscribe(EventNewInquiry, func(context.Context, Event) error {
		created++
		return nil
	})
	dispatcher.Subscribe(EventInquiryUpdated, func(context.Context, Event) error {
		updated++
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventNewInquiry})

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, updated)
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var delivered bool
	dispatcher.Subscribe(EventNewInquiry, func(context.Context, Event) error {
		return errors.New("handler exploded")
	})
	dispatcher.Subscribe(EventNewInquiry, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventNewInquiry})

	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestPublishWithoutSubscribersIsSafe(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventInquiryUpdated}))
}
