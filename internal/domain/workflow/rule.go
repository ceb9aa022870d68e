package workflow

import "fmt"

// Stage is one pending position in a rule's ordered sequence, with the role
// set authorized to act there.
type Stage struct {
	Status          Status
	Roles           []Role
	Escalatable     bool
	EscalationRoles []Role
}

// Authorized returns true if the role may act at this stage
func (st Stage) Authorized(role Role) bool {
	for _, r := range st.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanEscalate returns true if the role may escalate from this stage
func (st Stage) CanEscalate(role Role) bool {
	if !st.Escalatable {
		return false
	}
	for _, r := range st.EscalationRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Rule is the ordered stage graph plus permissions for one transaction type.
type Rule struct {
	Type               Type
	Stages             []Stage
	EscalationTarget   Status
	RequiresAcceptance bool
	SuccessStatus      Status
}

// First returns the rule's first pending status, where new transactions start.
func (r Rule) First() Status {
	return r.Stages[0].Status
}

// StageIndex returns the position of the given status in the rule's sequence.
func (r Rule) StageIndex(s Status) (int, bool) {
	for i, st := range r.Stages {
		if st.Status == s {
			return i, true
		}
	}
	return 0, false
}

// StageFor returns the stage definition for the given status.
func (r Rule) StageFor(s Status) (Stage, bool) {
	i, ok := r.StageIndex(s)
	if !ok {
		return Stage{}, false
	}
	return r.Stages[i], true
}

// NextOnApprove returns the status reached by approving at the given stage:
// the next pending stage, the acceptance sub-stage after the last pending
// stage for types that require it, or the rule's success terminal.
func (r Rule) NextOnApprove(from Status) (Status, error) {
	i, ok := r.StageIndex(from)
	if !ok {
		return "", fmt.Errorf("%w: status %s is not a stage of type %s", ErrInvalidRouting, from, r.Type)
	}
	if i < len(r.Stages)-1 {
		return r.Stages[i+1].Status, nil
	}
	if r.RequiresAcceptance {
		return StatusPendingEmployeeAccept, nil
	}
	return r.SuccessStatus, nil
}

// Transition computes the status reached by applying the action at the given
// status. It is pure routing: authorization and idempotency are checked by the
// engine before a transition is applied.
func (r Rule) Transition(from Status, action Action) (Status, error) {
	if from == StatusPendingEmployeeAccept {
		if !r.RequiresAcceptance || action != ActionAccept {
			return "", fmt.Errorf("%w: action %s at acceptance stage", ErrUnauthorized, action)
		}
		return StatusCompleted, nil
	}

	idx, ok := r.StageIndex(from)
	if !ok {
		return "", fmt.Errorf("%w: status %s is not a stage of type %s", ErrInvalidRouting, from, r.Type)
	}

	switch action {
	case ActionApprove:
		return r.NextOnApprove(from)
	case ActionReject:
		return StatusRejected, nil
	case ActionEscalate:
		if !r.Stages[idx].Escalatable {
			return "", fmt.Errorf("%w: stage %s is not escalatable", ErrUnauthorized, from)
		}
		return r.EscalationTarget, nil
	case ActionReturn:
		if r.SuccessStatus != StatusReturned {
			return "", fmt.Errorf("%w: type %s has no return flow", ErrUnauthorized, r.Type)
		}
		return StatusReturned, nil
	case ActionCancel:
		if idx != 0 {
			return "", fmt.Errorf("%w: cancel only permitted at the first pending stage", ErrUnauthorized)
		}
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: action %s at stage %s", ErrUnauthorized, action, from)
	}
}

// Replay walks the recorded actions from the rule's first stage and returns
// the status they produce. A well-formed approval chain replayed against its
// rule must reproduce the transaction's stored status.
func (r Rule) Replay(actions []Action) (Status, error) {
	cur := r.First()
	for _, a := range actions {
		if a == ActionCreate {
			continue
		}
		next, err := r.Transition(cur, a)
		if err != nil {
			return "", fmt.Errorf("replay %s at %s: %w", a, cur, err)
		}
		cur = next
	}
	return cur, nil
}
