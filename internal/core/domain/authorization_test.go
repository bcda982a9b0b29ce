package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func profileOf(t UserType) *Profile { return &Profile{UserType: t} }

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		want  Tier
	}{
		{"superuser without profile", Actor{UserID: 1, IsSuperuser: true}, TierSuperuser},
		{"superuser with department tag", Actor{UserID: 1, IsSuperuser: true, Profile: profileOf(UserTypeDepartment)}, TierSuperuser},
		{"superuser with admin tag", Actor{UserID: 1, IsSuperuser: true, Profile: profileOf(UserTypeAdmin)}, TierSuperuser},
		{"admin tag", Actor{UserID: 2, Profile: profileOf(UserTypeAdmin)}, TierElevated},
		{"owner tag", Actor{UserID: 2, Profile: profileOf(UserTypeOwner)}, TierElevated},
		{"department tag", Actor{UserID: 3, Profile: profileOf(UserTypeDepartment)}, TierStandard},
		{"no profile", Actor{UserID: 3}, TierStandard},
		{"unknown tag", Actor{UserID: 3, Profile: profileOf("visitor")}, TierStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.actor))
		})
	}
}

func TestAuthorize_ViewDepartment(t *testing.T) {
	dept := &DepartmentRef{ID: 7, OwnerID: uintPtr(10)}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"superuser", Actor{UserID: 1, IsSuperuser: true}, true},
		{"admin", Actor{UserID: 2, Profile: profileOf(UserTypeAdmin)}, true},
		{"owner tag", Actor{UserID: 3, Profile: profileOf(UserTypeOwner)}, true},
		{"department owner", Actor{UserID: 10, Profile: profileOf(UserTypeDepartment)}, true},
		{"owner without profile", Actor{UserID: 10}, true},
		{"stranger", Actor{UserID: 11, Profile: profileOf(UserTypeDepartment)}, false},
		{"stranger without profile", Actor{UserID: 11}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.actor, ActionViewDepartment, dept)
			assert.Equal(t, tt.want, d.Allowed)
			if !tt.want {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestAuthorize_EditDepartment(t *testing.T) {
	dept := &DepartmentRef{ID: 7, OwnerID: uintPtr(10)}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"superuser", Actor{UserID: 1, IsSuperuser: true}, true},
		{"admin", Actor{UserID: 2, Profile: profileOf(UserTypeAdmin)}, true},
		{"owner tag is not admin", Actor{UserID: 3, Profile: profileOf(UserTypeOwner)}, false},
		{"department owner", Actor{UserID: 10, Profile: profileOf(UserTypeDepartment)}, true},
		{"stranger", Actor{UserID: 11, Profile: profileOf(UserTypeDepartment)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.actor, ActionEditDepartment, dept).Allowed)
		})
	}
}

func TestAuthorize_DeleteDepartment(t *testing.T) {
	dept := &DepartmentRef{ID: 7, OwnerID: uintPtr(10)}

	assert.True(t, Authorize(Actor{UserID: 1, IsSuperuser: true}, ActionDeleteDepartment, dept).Allowed)
	assert.True(t, Authorize(Actor{UserID: 2, Profile: profileOf(UserTypeAdmin)}, ActionDeleteDepartment, dept).Allowed)
	assert.True(t, Authorize(Actor{UserID: 3, Profile: profileOf(UserTypeOwner)}, ActionDeleteDepartment, dept).Allowed)
	assert.True(t, Authorize(Actor{UserID: 10}, ActionDeleteDepartment, dept).Allowed)
	assert.False(t, Authorize(Actor{UserID: 11}, ActionDeleteDepartment, dept).Allowed)
}

func TestAuthorize_OwnerlessDepartment(t *testing.T) {
	dept := &DepartmentRef{ID: 7}

	standard := Actor{UserID: 10, Profile: profileOf(UserTypeDepartment)}
	assert.False(t, Authorize(standard, ActionViewDepartment, dept).Allowed)
	assert.False(t, Authorize(standard, ActionEditDepartment, dept).Allowed)
	assert.False(t, Authorize(standard, ActionDeleteDepartment, dept).Allowed)

	// zero-value actor must not match a zero owner id
	assert.False(t, Authorize(Actor{}, ActionViewDepartment, &DepartmentRef{ID: 7, OwnerID: uintPtr(0)}).Allowed)

	assert.True(t, Authorize(Actor{UserID: 1, IsSuperuser: true}, ActionEditDepartment, dept).Allowed)
}

func TestAuthorize_DeleteIdentity(t *testing.T) {
	dept := &DepartmentRef{ID: 7, OwnerID: uintPtr(10)}

	actors := []struct {
		actor Actor
		want  bool
	}{
		{Actor{UserID: 1, IsSuperuser: true}, true},
		{Actor{UserID: 1, IsSuperuser: true, Profile: profileOf(UserTypeDepartment)}, true},
		{Actor{UserID: 2, Profile: profileOf(UserTypeAdmin)}, false},
		{Actor{UserID: 3, Profile: profileOf(UserTypeOwner)}, false},
		{Actor{UserID: 10, Profile: profileOf(UserTypeDepartment)}, false},
		{Actor{UserID: 10}, false},
	}

	for _, tt := range actors {
		// the department argument is irrelevant, including for the department's own owner
		assert.Equal(t, tt.want, Authorize(tt.actor, ActionDeleteIdentity, dept).Allowed)
		assert.Equal(t, tt.want, Authorize(tt.actor, ActionDeleteIdentity, nil).Allowed)
	}
}

func TestAuthorize_AdminOnlyActions(t *testing.T) {
	actions := []Action{ActionListAllDepartments, ActionReviewRemarks, ActionAccessAdminPanel, ActionManageUsers}

	for _, action := range actions {
		t.Run(string(action), func(t *testing.T) {
			assert.True(t, Authorize(Actor{UserID: 1, IsSuperuser: true}, action, nil).Allowed)
			assert.True(t, Authorize(Actor{UserID: 2, Profile: profileOf(UserTypeAdmin)}, action, nil).Allowed)
			assert.False(t, Authorize(Actor{UserID: 3, Profile: profileOf(UserTypeOwner)}, action, nil).Allowed)
			assert.False(t, Authorize(Actor{UserID: 4}, action, nil).Allowed)
		})
	}
}

func TestAuthorize_MissingDepartmentDenied(t *testing.T) {
	su := Actor{UserID: 1, IsSuperuser: true}
	assert.False(t, Authorize(su, ActionViewDepartment, nil).Allowed)
	assert.False(t, Authorize(su, ActionEditDepartment, nil).Allowed)
	assert.False(t, Authorize(su, ActionDeleteDepartment, nil).Allowed)
	assert.False(t, Authorize(su, Action("launch"), nil).Allowed)
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, allow.Err(ActionViewDepartment))

	err := deny("nope").Err(ActionEditDepartment)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))

	var authErr *AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, ActionEditDepartment, authErr.Action)
	assert.Equal(t, "nope", authErr.Reason)
}

func TestListScope(t *testing.T) {
	ownerOnly, _ := ListScope(Actor{UserID: 1, IsSuperuser: true})
	assert.False(t, ownerOnly)

	ownerOnly, _ = ListScope(Actor{UserID: 2, Profile: profileOf(UserTypeAdmin)})
	assert.False(t, ownerOnly)

	ownerOnly, id := ListScope(Actor{UserID: 3, Profile: profileOf(UserTypeOwner)})
	assert.True(t, ownerOnly)
	assert.Equal(t, uint(3), id)

	ownerOnly, id = ListScope(Actor{UserID: 4})
	assert.True(t, ownerOnly)
	assert.Equal(t, uint(4), id)
}

func TestDispatch(t *testing.T) {
	assert.Equal(t, Landing{Kind: LandingAdmin}, Dispatch(Actor{UserID: 1, IsSuperuser: true}, 5))
	assert.Equal(t, Landing{Kind: LandingDepartment, DepartmentID: 5}, Dispatch(Actor{UserID: 2, Profile: profileOf(UserTypeAdmin)}, 5))
	assert.Equal(t, Landing{Kind: LandingDashboard}, Dispatch(Actor{UserID: 3}, 0))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "green", StatusColor("active"))
	assert.Equal(t, "red", StatusColor("inactive"))
	assert.Equal(t, "orange", StatusColor("pending"))
	assert.Equal(t, "black", StatusColor("OK"))
	assert.Equal(t, "black", StatusColor(""))
}

func TestValidationError(t *testing.T) {
	err := error(NewValidationError("email", "Emails do not match"))
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "email: Emails do not match", err.Error())
}
