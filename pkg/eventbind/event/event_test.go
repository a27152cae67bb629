package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
)

func TestBaseEvent(t *testing.T) {
	type TestPayload struct {
		Text string `json:"text"`
		Chat int64  `json:"chat"`
	}

	evt := event.New("message.text", "telegram", TestPayload{Text: "/start", Chat: 42})

	if evt.ID() == "" {
		t.Error("expected non-empty ID")
	}
	if evt.Type() != "message.text" {
		t.Errorf("expected type message.text, got %s", evt.Type())
	}
	if evt.Source() != "telegram" {
		t.Errorf("expected source telegram, got %s", evt.Source())
	}
	if evt.CorrelationID() != evt.ID() {
		t.Error("expected correlation ID to equal event ID for root event")
	}
	if evt.Timestamp().IsZero() {
		t.Error("expected non-zero timestamp")
	}
	if evt.TypedData().Text != "/start" {
		t.Errorf("expected text /start, got %s", evt.TypedData().Text)
	}
	if _, ok := evt.Data().(TestPayload); !ok {
		t.Errorf("expected Data() to return TestPayload, got %T", evt.Data())
	}
}

func TestEventOptions(t *testing.T) {
	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	evt := event.NewAny("callback.query", "telegram", nil,
		event.WithID("custom-id"),
		event.WithCorrelationID("corr-id"),
		event.WithTimestamp(customTime),
	)

	if evt.ID() != "custom-id" {
		t.Errorf("expected custom-id, got %s", evt.ID())
	}
	if evt.CorrelationID() != "corr-id" {
		t.Errorf("expected corr-id, got %s", evt.CorrelationID())
	}
	if !evt.Timestamp().Equal(customTime) {
		t.Errorf("expected %v, got %v", customTime, evt.Timestamp())
	}
	if evt.String() != "callback.query#custom-id" {
		t.Errorf("unexpected string form %q", evt.String())
	}
}

func TestNewFromParent(t *testing.T) {
	parent := event.NewAny("message.text", "telegram", "hi")
	child := event.NewFromParent(parent, "reply.sent", "bot", 7)

	if child.CorrelationID() != parent.CorrelationID() {
		t.Errorf("expected correlation %s, got %s", parent.CorrelationID(), child.CorrelationID())
	}
	if child.ID() == parent.ID() {
		t.Error("expected child to get its own ID")
	}
}

func TestMarshalJSON(t *testing.T) {
	evt := event.New("message.text", "telegram", map[string]string{"text": "hello"}, event.WithID("e1"))

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Metadata event.Metadata    `json:"metadata"`
		Payload  map[string]string `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Metadata.EventID != "e1" || decoded.Payload["text"] != "hello" {
		t.Errorf("unexpected round trip: %+v", decoded)
	}
}
