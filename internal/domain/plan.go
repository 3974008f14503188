package domain

// Plan is a shareable container of tasks. The owner controls membership;
// members gain visibility of every task linked to the plan.
type Plan struct {
	Timestamps
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PlanPermission defines the level of access a plan member has to the
// plan's tasks.
type PlanPermission string

const (
	// PermissionView allows reading tasks in the plan.
	PermissionView PlanPermission = "view"
	// PermissionEdit additionally allows updating and deleting shared tasks.
	PermissionEdit PlanPermission = "edit"
)

// ParsePlanPermission converts a string to PlanPermission.
func ParsePlanPermission(s string) (PlanPermission, bool) {
	switch PlanPermission(s) {
	case PermissionView, PermissionEdit:
		return PlanPermission(s), true
	default:
		return PermissionView, false
	}
}

// CanView returns true if the permission allows reading plan tasks.
func (p PlanPermission) CanView() bool {
	return p == PermissionView || p == PermissionEdit
}

// CanEdit returns true if the permission allows mutating plan tasks.
func (p PlanPermission) CanEdit() bool {
	return p == PermissionEdit
}

// PlanMember grants a user access to a plan. The (plan, user) pair is
// unique at the storage layer; the plan owner is never a member row.
type PlanMember struct {
	Timestamps
	PlanID     string         `json:"plan_id"`
	UserID     string         `json:"user_id"`
	AddedBy    string         `json:"added_by"`
	Permission PlanPermission `json:"permission"`
}

// PlanTask links a task into a plan. The (plan, task) pair is unique at
// the storage layer.
type PlanTask struct {
	Timestamps
	PlanID  string `json:"plan_id"`
	TaskID  string `json:"task_id"`
	AddedBy string `json:"added_by"`
}
