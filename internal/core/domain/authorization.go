package domain

// Action is an operation guarded by the authorization engine
type Action string

const (
	ActionViewDepartment     Action = "view_department"
	ActionEditDepartment     Action = "edit_department"
	ActionDeleteDepartment   Action = "delete_department"
	ActionListAllDepartments Action = "list_all_departments"
	ActionReviewRemarks      Action = "review_remarks"
	ActionAccessAdminPanel   Action = "access_admin_panel"
	ActionManageUsers        Action = "manage_users"
	ActionDeleteIdentity     Action = "delete_identity"
)

// Decision is the outcome of an authorization check.
// Reason is only set on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns nil for an allowed decision, an *AuthorizationError otherwise
func (d Decision) Err(action Action) error {
	if d.Allowed {
		return nil
	}
	return &AuthorizationError{Action: action, Reason: d.Reason}
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize decides whether actor may perform action.
// dept is required for department-scoped actions and ignored otherwise;
// a nil dept on a department-scoped action is denied.
func Authorize(actor Actor, action Action, dept *DepartmentRef) Decision {
	tier := Classify(actor)

	switch action {
	case ActionViewDepartment:
		if dept == nil {
			return deny("You do not have permission to view this department.")
		}
		if tier != TierStandard || dept.IsOwnedBy(actor.UserID) {
			return allow
		}
		return deny("You do not have permission to view this department.")

	case ActionEditDepartment:
		if dept == nil {
			return deny("You do not have permission to edit this department.")
		}
		if IsAdminTier(actor) || dept.IsOwnedBy(actor.UserID) {
			return allow
		}
		return deny("You do not have permission to edit this department.")

	case ActionDeleteDepartment:
		if dept == nil {
			return deny("You don't have permission to delete this department.")
		}
		if tier != TierStandard || dept.IsOwnedBy(actor.UserID) {
			return allow
		}
		return deny("You don't have permission to delete this department.")

	case ActionListAllDepartments:
		if IsAdminTier(actor) {
			return allow
		}
		return deny("Only administrators can list every department.")

	case ActionReviewRemarks:
		if IsAdminTier(actor) {
			return allow
		}
		return deny("Only administrators can update remarks.")

	case ActionAccessAdminPanel:
		if IsAdminTier(actor) {
			return allow
		}
		return deny("You don't have permission to access Admin Panel.")

	case ActionManageUsers:
		if IsAdminTier(actor) {
			return allow
		}
		return deny("Only administrators can manage other users.")

	case ActionDeleteIdentity:
		if tier == TierSuperuser {
			return allow
		}
		return deny("Only superusers can delete user accounts.")
	}

	return deny("Unknown action.")
}

// ListScope returns the owner filter for a department listing.
// ownerOnly is false when the actor may see every department.
func ListScope(actor Actor) (ownerOnly bool, ownerID uint) {
	if Authorize(actor, ActionListAllDepartments, nil).Allowed {
		return false, 0
	}
	return true, actor.UserID
}

// Dispatch routes an authenticated actor to its landing.
// ownedDepartmentID is any one department the actor owns, or 0 when none.
func Dispatch(actor Actor, ownedDepartmentID uint) Landing {
	if Classify(actor) == TierSuperuser {
		return Landing{Kind: LandingAdmin}
	}
	if ownedDepartmentID != 0 {
		return Landing{Kind: LandingDepartment, DepartmentID: ownedDepartmentID}
	}
	return Landing{Kind: LandingDashboard}
}
