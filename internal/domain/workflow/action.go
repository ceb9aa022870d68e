package workflow

// Action represents an event a caller submits against a transaction
type Action string

const (
	ActionApprove  Action = "APPROVE"
	ActionReject   Action = "REJECT"
	ActionEscalate Action = "ESCALATE"
	ActionAccept   Action = "ACCEPT"
	ActionReturn   Action = "RETURN"
	ActionCancel   Action = "CANCEL"

	// ActionCreate only ever appears in the approval chain; it records the
	// submission itself and is not submittable through the engine.
	ActionCreate Action = "CREATE"
)

var submittableActions = map[Action]bool{
	ActionApprove:  true,
	ActionReject:   true,
	ActionEscalate: true,
	ActionAccept:   true,
	ActionReturn:   true,
	ActionCancel:   true,
}

// ParseAction parses a caller-supplied action string. Only actions that may be
// submitted through the engine parse successfully.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	return a, submittableActions[a]
}

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}
