package amqp

import (
	"encoding/json"
	"time"

	"budget/internal/core"
)

// EntryEvent announces that an entry was appended to an owner's ledger.
// Amount is the fixed two-decimal string so consumers never see floats.
type EntryEvent struct {
	ID        int64     `json:"id"`
	Owner     int64     `json:"owner"`
	Kind      string    `json:"kind"`
	Amount    string    `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryEvent(e core.Entry, now time.Time) *EntryEvent {
	return &EntryEvent{
		ID:        e.ID,
		Owner:     int64(e.Owner),
		Kind:      e.Kind.String(),
		Amount:    e.Amount.String(),
		Category:  e.Category,
		Date:      e.Date.String(),
		Timestamp: now.UTC(),
	}
}

func (m *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var msg EntryEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
