package worker

import (
	"context"

	"github.com/supportdesk/inquiry-service/internal/events"
	"github.com/supportdesk/inquiry-service/internal/ws"
)

// StartFanout subscribes the websocket hub to lifecycle events. Delivery is
// handed off to a goroutine so publishing never blocks the write path.
func StartFanout(dispatcher events.Dispatcher, hub *ws.Hub) {
	if dispatcher == nil || hub == nil {
		return
	}
	handler := func(_ context.Context, event events.Event) error {
		go hub.Broadcast(event.Payload)
		return nil
	}
	dispatcher.Subscribe(events.EventNewInquiry, handler)
	dispatcher.Subscribe(events.EventInquiryUpdated, handler)
}
