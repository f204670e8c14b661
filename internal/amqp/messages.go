package amqp

import (
	"encoding/json"
	"time"
)

// Event actions carried by TransactionEventMessage.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEventMessage is a lightweight notification that a transaction
// was created or deleted. It carries only the id and action; consumers fetch
// the full record from the database when they need it.
type TransactionEventMessage struct {
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEventMessage creates a new event message for the given action and id.
func NewTransactionEventMessage(action string, id int64) *TransactionEventMessage {
	return &TransactionEventMessage{
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventMessageFromJSON creates a message from JSON bytes
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
