package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/events"
	"github.com/supportdesk/inquiry-service/internal/ws"
)

type recordingConn struct {
	mu      sync.Mutex
	written [][]byte
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, data)
	return nil
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

func (c *recordingConn) last() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written[len(c.written)-1]
}

func TestFanoutBridgesEventsToHub(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	hub := ws.NewHub(zap.NewNop())
	StartFanout(dispatcher, hub)

	conn := &recordingConn{}
	hub.Connect(conn)

	assignee := int64(3)
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventInquiryUpdated,
		Payload: events.InquiryUpdated(7, "Completed", &assignee),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return conn.count() == 1 }, time.Second, 5*time.Millisecond)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(conn.last(), &decoded))
	assert.Equal(t, "inquiry_updated", decoded["event"])
	assert.EqualValues(t, 7, decoded["inquiry_id"])
	assert.Equal(t, "Completed", decoded["status"])
	assert.EqualValues(t, 3, decoded["assigned_user_id"])
}

func TestFanoutDeliversCreationEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	hub := ws.NewHub(zap.NewNop())
	StartFanout(dispatcher, hub)

	conn := &recordingConn{}
	hub.Connect(conn)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventNewInquiry,
		Payload: events.NewInquiry(11),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return conn.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t, `{"event":"new_inquiry","inquiry_id":11}`, string(conn.last()))
}

func TestFanoutToleratesNilCollaborators(t *testing.T) {
	assert.NotPanics(t, func() {
		StartFanout(nil, ws.NewHub(zap.NewNop()))
		StartFanout(events.NewInMemoryDispatcher(), nil)
	})
}
