package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EventKind tells consumers what happened to a transaction
type EventKind string

const (
	EventCreated EventKind = "created"
	EventDeleted EventKind = "deleted"
)

// TransactionEvent is a lightweight notification about a transaction.
// Consumers fetch the full record from the store when they need it.
type TransactionEvent struct {
	Kind      EventKind `json:"kind"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(kind EventKind, id string) *TransactionEvent {
	return &TransactionEvent{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and validates an event body
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Kind {
	case EventCreated, EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	if ev.ID == "" {
		return nil, errors.New("event without transaction id")
	}
	return &ev, nil
}
