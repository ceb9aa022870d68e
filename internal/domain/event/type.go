package event

// Type identifies the type of domain event
type Type string

const (
	TypeTransactionCreated Type = "transaction.created"
	TypeStageChanged       Type = "transaction.stage_changed"
	TypeTerminalReached    Type = "transaction.terminal_reached"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeTransactionCreated, TypeStageChanged, TypeTerminalReached:
		return true
	default:
		return false
	}
}
