package workflow

// Status represents a transaction's position in its type's stage graph
type Status string

const (
	StatusPendingSupervisor     Status = "PENDING_SUPERVISOR"
	StatusPendingOps            Status = "PENDING_OPS"
	StatusPendingFinance        Status = "PENDING_FINANCE"
	StatusPendingCEO            Status = "PENDING_CEO"
	StatusSTAS                  Status = "STAS"
	StatusPendingEmployeeAccept Status = "PENDING_EMPLOYEE_ACCEPT"
	StatusExecuted              Status = "EXECUTED"
	StatusCompleted             Status = "COMPLETED"
	StatusRejected              Status = "REJECTED"
	StatusCancelled             Status = "CANCELLED"
	StatusReturned              Status = "RETURNED"
)

var validStatuses = map[Status]bool{
	StatusPendingSupervisor:     true,
	StatusPendingOps:            true,
	StatusPendingFinance:        true,
	StatusPendingCEO:            true,
	StatusSTAS:                  true,
	StatusPendingEmployeeAccept: true,
	StatusExecuted:              true,
	StatusCompleted:             true,
	StatusRejected:              true,
	StatusCancelled:             true,
	StatusReturned:              true,
}

var terminalStatuses = map[Status]bool{
	StatusExecuted:  true,
	StatusCompleted: true,
	StatusRejected:  true,
	StatusCancelled: true,
	StatusReturned:  true,
}

// stageLabels maps each status to the human-facing stage label shown in the UI
// and denormalized onto the transaction record.
var stageLabels = map[Status]string{
	StatusPendingSupervisor:     "supervisor",
	StatusPendingOps:            "ops",
	StatusPendingFinance:        "finance",
	StatusPendingCEO:            "ceo",
	StatusSTAS:                  "stas",
	StatusPendingEmployeeAccept: "employee_accept",
	StatusExecuted:              "executed",
	StatusCompleted:             "completed",
	StatusRejected:              "rejected",
	StatusCancelled:             "cancelled",
	StatusReturned:              "returned",
}

// IsTerminal returns true if the status accepts no further mutating actions
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsValid returns true if the status is a known workflow status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Label returns the human-facing stage label for the status
func (s Status) Label() string {
	return stageLabels[s]
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}
