package amqp

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTransactionEventMessageRoundTrip(t *testing.T) {
	msg := NewTransactionEventMessage(ActionCreated, 42)
	if msg.Action != "created" || msg.ID != 42 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := TransactionEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Action != msg.Action || got.ID != msg.ID {
		t.Fatalf("round trip mismatch: %+v != %+v", got, msg)
	}
	if !got.Timestamp.Equal(msg.Timestamp.Truncate(0)) && got.Timestamp.Sub(msg.Timestamp) > time.Second {
		t.Fatalf("timestamp drift: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestTransactionEventMessageFromJSONInvalid(t *testing.T) {
	if _, err := TransactionEventMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestTransactionEventMessageWireFields(t *testing.T) {
	body, err := NewTransactionEventMessage(ActionDeleted, 7).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	for _, key := range []string{"action", "id", "timestamp"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing wire field %q", key)
		}
	}
	if raw["action"] != "deleted" {
		t.Errorf("action = %v, want deleted", raw["action"])
	}
}
