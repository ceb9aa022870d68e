package event

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hqops/approvalflow/internal/domain/workflow"
)

// Event is a domain event published after a committed transition. Delivery is
// advisory: the store write is the source of truth, and consumers must
// tolerate missing events.
type Event struct {
	ID            string          `json:"id"`
	Type          Type            `json:"type"`
	TransactionID string          `json:"transaction_id"`
	RefNo         string          `json:"ref_no"`
	TxType        workflow.Type   `json:"tx_type"`
	OldStatus     workflow.Status `json:"old_status"`
	NewStatus     workflow.Status `json:"new_status"`
	ActorID       string          `json:"actor_id"`
	Timestamp     time.Time       `json:"timestamp"`
}

// New creates a domain event with an auto-generated ID and timestamp
func New(eventType Type, transactionID, refNo string, txType workflow.Type, oldStatus, newStatus workflow.Status, actorID string) *Event {
	return &Event{
		ID:            generateID(),
		Type:          eventType,
		TransactionID: transactionID,
		RefNo:         refNo,
		TxType:        txType,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ActorID:       actorID,
		Timestamp:     time.Now(),
	}
}

// generateID creates a unique ID using timestamp and random bytes
func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
