package workflow

import "fmt"

// Table maps each transaction type to its routing rule. It is static
// configuration data, built once at startup and validated before use.
type Table map[Type]Rule

// Rule returns the routing rule for the given type
func (t Table) Rule(tt Type) (Rule, bool) {
	r, ok := t[tt]
	return r, ok
}

// Builder assembles a routing table. Configuration errors are collected and
// reported from Build so a malformed table fails at startup, not at first use.
type Builder struct {
	order []Type
	rules map[Type]*Rule
}

// RuleConfig configures the stage sequence for one transaction type
type RuleConfig struct {
	rule *Rule
}

// NewBuilder creates a new routing table builder
func NewBuilder() *Builder {
	return &Builder{rules: make(map[Type]*Rule)}
}

// Configure returns the rule configuration for the given type
func (b *Builder) Configure(t Type) *RuleConfig {
	rule, exists := b.rules[t]
	if !exists {
		rule = &Rule{Type: t}
		b.rules[t] = rule
		b.order = append(b.order, t)
	}
	return &RuleConfig{rule: rule}
}

// Stage appends a pending stage with its authorized role set
func (c *RuleConfig) Stage(s Status, roles ...Role) *RuleConfig {
	c.rule.Stages = append(c.rule.Stages, Stage{Status: s, Roles: roles})
	return c
}

// EscalateFrom marks a stage as escalatable by the given roles, jumping
// directly to target and skipping any stages in between.
func (c *RuleConfig) EscalateFrom(from, target Status, roles ...Role) *RuleConfig {
	for i := range c.rule.Stages {
		if c.rule.Stages[i].Status == from {
			c.rule.Stages[i].Escalatable = true
			c.rule.Stages[i].EscalationRoles = roles
		}
	}
	c.rule.EscalationTarget = target
	return c
}

// WithAcceptance requires the subject employee to accept after the last
// pending stage approves, before the transaction completes.
func (c *RuleConfig) WithAcceptance() *RuleConfig {
	c.rule.RequiresAcceptance = true
	return c
}

// Terminal sets the terminal status reached on approval of the last pending stage
func (c *RuleConfig) Terminal(s Status) *RuleConfig {
	c.rule.SuccessStatus = s
	return c
}

// Build validates the configuration and returns the routing table. The table
// must be total: every supported type needs a valid, non-empty stage sequence.
func (b *Builder) Build() (Table, error) {
	table := make(Table, len(b.rules))

	for _, t := range b.order {
		rule := b.rules[t]
		if err := validateRule(rule); err != nil {
			return nil, err
		}
		table[t] = *rule
	}

	for _, t := range AllTypes() {
		if _, ok := table[t]; !ok {
			return nil, fmt.Errorf("%w: type %s has no routing rule", ErrInvalidRouting, t)
		}
	}

	return table, nil
}

func validateRule(r *Rule) error {
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %s", ErrInvalidRouting, r.Type)
	}
	if len(r.Stages) == 0 {
		return fmt.Errorf("%w: type %s has no stages", ErrInvalidRouting, r.Type)
	}

	seen := make(map[Status]bool, len(r.Stages))
	for _, st := range r.Stages {
		if !st.Status.IsValid() || st.Status.IsTerminal() || st.Status == StatusPendingEmployeeAccept {
			return fmt.Errorf("%w: type %s: %s is not a pending stage status", ErrInvalidRouting, r.Type, st.Status)
		}
		if seen[st.Status] {
			return fmt.Errorf("%w: type %s: duplicate stage %s", ErrInvalidRouting, r.Type, st.Status)
		}
		seen[st.Status] = true
		if len(st.Roles) == 0 {
			return fmt.Errorf("%w: type %s: stage %s has no authorized roles", ErrInvalidRouting, r.Type, st.Status)
		}
	}

	if !r.SuccessStatus.IsTerminal() {
		return fmt.Errorf("%w: type %s: success terminal %q is not terminal", ErrInvalidRouting, r.Type, r.SuccessStatus)
	}
	if r.RequiresAcceptance && r.SuccessStatus != StatusCompleted {
		return fmt.Errorf("%w: type %s: acceptance flows must terminate in %s", ErrInvalidRouting, r.Type, StatusCompleted)
	}

	for i, st := range r.Stages {
		if !st.Escalatable {
			continue
		}
		if len(st.EscalationRoles) == 0 {
			return fmt.Errorf("%w: type %s: stage %s escalatable without escalation roles", ErrInvalidRouting, r.Type, st.Status)
		}
		target, ok := r.StageIndex(r.EscalationTarget)
		if !ok {
			return fmt.Errorf("%w: type %s: escalation target %s is not a stage", ErrInvalidRouting, r.Type, r.EscalationTarget)
		}
		if target <= i {
			return fmt.Errorf("%w: type %s: escalation from %s must jump forward", ErrInvalidRouting, r.Type, st.Status)
		}
	}

	return nil
}

// DefaultTable builds the routing table for all supported transaction types.
func DefaultTable() (Table, error) {
	b := NewBuilder()

	b.Configure(TypeLeaveRequest).
		Stage(StatusPendingSupervisor, RoleSupervisor).
		Stage(StatusPendingOps, RoleOps).
		Stage(StatusSTAS, RoleSTAS).
		EscalateFrom(StatusPendingSupervisor, StatusSTAS, RoleSultan).
		Terminal(StatusExecuted)

	b.Configure(TypeFinance60).
		Stage(StatusPendingOps, RoleOps, RoleSultan).
		Stage(StatusPendingFinance, RoleFinance).
		Stage(StatusPendingCEO, RoleCEO).
		Stage(StatusSTAS, RoleSTAS).
		EscalateFrom(StatusPendingOps, StatusPendingCEO, RoleSultan).
		EscalateFrom(StatusPendingFinance, StatusPendingCEO, RoleSultan).
		Terminal(StatusExecuted)

	b.Configure(TypeSettlement).
		Stage(StatusPendingSupervisor, RoleSupervisor).
		Stage(StatusPendingFinance, RoleFinance).
		Stage(StatusPendingCEO, RoleCEO).
		Stage(StatusSTAS, RoleSTAS).
		EscalateFrom(StatusPendingSupervisor, StatusPendingCEO, RoleSultan).
		EscalateFrom(StatusPendingFinance, StatusPendingCEO, RoleSultan).
		Terminal(StatusExecuted)

	b.Configure(TypeContract).
		Stage(StatusPendingOps, RoleOps, RoleHR).
		Stage(StatusPendingCEO, RoleCEO).
		Stage(StatusSTAS, RoleSTAS).
		Terminal(StatusExecuted)

	b.Configure(TypeTangibleCustody).
		Stage(StatusPendingSupervisor, RoleSupervisor).
		Stage(StatusPendingOps, RoleOps).
		Stage(StatusSTAS, RoleSTAS).
		WithAcceptance().
		Terminal(StatusCompleted)

	b.Configure(TypeTangibleCustodyReturn).
		Stage(StatusPendingOps, RoleOps).
		Stage(StatusSTAS, RoleSTAS).
		Terminal(StatusReturned)

	b.Configure(TypeWarning).
		Stage(StatusPendingSupervisor, RoleSupervisor, RoleHR).
		Stage(StatusPendingOps, RoleOps).
		Terminal(StatusExecuted)

	b.Configure(TypeAsset).
		Stage(StatusPendingOps, RoleOps).
		Stage(StatusPendingFinance, RoleFinance).
		Stage(StatusSTAS, RoleSTAS).
		Terminal(StatusExecuted)

	b.Configure(TypeAttendanceCorrection).
		Stage(StatusPendingSupervisor, RoleSupervisor).
		Stage(StatusPendingOps, RoleOps).
		Terminal(StatusExecuted)

	b.Configure(TypeAddFinanceCode).
		Stage(StatusPendingFinance, RoleFinance).
		Stage(StatusSTAS, RoleSTAS).
		Terminal(StatusExecuted)

	return b.Build()
}
