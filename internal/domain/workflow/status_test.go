package workflow

import "testing"

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusPendingSupervisor, false},
		{StatusPendingOps, false},
		{StatusPendingFinance, false},
		{StatusPendingCEO, false},
		{StatusSTAS, false},
		{StatusPendingEmployeeAccept, false},
		{StatusExecuted, true},
		{StatusCompleted, true},
		{StatusRejected, true},
		{StatusCancelled, true},
		{StatusReturned, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"pending stage", StatusPendingSupervisor, true},
		{"terminal", StatusExecuted, true},
		{"unknown", Status("INVALID"), false},
		{"empty", Status(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("Status.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_Label(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPendingSupervisor, "supervisor"},
		{StatusPendingOps, "ops"},
		{StatusPendingFinance, "finance"},
		{StatusPendingCEO, "ceo"},
		{StatusSTAS, "stas"},
		{StatusPendingEmployeeAccept, "employee_accept"},
		{StatusExecuted, "executed"},
		{StatusCompleted, "completed"},
		{StatusRejected, "rejected"},
		{StatusCancelled, "cancelled"},
		{StatusReturned, "returned"},
	}

	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("Status(%s).Label() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  Action
		ok    bool
	}{
		{"APPROVE", ActionApprove, true},
		{"REJECT", ActionReject, true},
		{"ESCALATE", ActionEscalate, true},
		{"ACCEPT", ActionAccept, true},
		{"RETURN", ActionReturn, true},
		{"CANCEL", ActionCancel, true},
		{"CREATE", "", false},
		{"approve", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseAction(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseAction(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestType_RefPrefix(t *testing.T) {
	for _, typ := range AllTypes() {
		if typ.RefPrefix() == "" {
			t.Errorf("type %s has no ref prefix", typ)
		}
	}
	if TypeLeaveRequest.RefPrefix() != "LR" {
		t.Errorf("TypeLeaveRequest.RefPrefix() = %q, want LR", TypeLeaveRequest.RefPrefix())
	}
}
