package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"kakeibo/internal/ledger"
)

// LedgerChangedMessage tells consumers the ledger moved to a new revision.
// It carries no records; consumers reload the persisted ledger themselves.
type LedgerChangedMessage struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Revision  uint64    `json:"revision"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(c ledger.Change) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		ID:        uuid.NewString(),
		Op:        c.Op,
		Revision:  c.Revision,
		Count:     c.Count,
		Timestamp: time.Now().UTC(),
	}
}

// Change converts the message back into a ledger change.
func (m *LedgerChangedMessage) Change() ledger.Change {
	return ledger.Change{Op: m.Op, Revision: m.Revision, Count: m.Count}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
