package workflow

// Role identifies the capacity in which an actor acts at a stage. Identity and
// role assignment belong to the auth collaborator; the engine only checks
// membership against the routing rule's role sets.
type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleSupervisor Role = "SUPERVISOR"
	RoleOps        Role = "OPS"
	RoleFinance    Role = "FINANCE"
	RoleCEO        Role = "CEO"
	RoleSTAS       Role = "STAS"
	RoleSultan     Role = "SULTAN"
	RoleHR         Role = "HR"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
