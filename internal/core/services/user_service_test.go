package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/pagination"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUser_SuperuserOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	su := env.seedUser(t, "root@example.com", true, "")
	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	ownerTag := env.seedUser(t, "tagged@example.com", false, domain.UserTypeOwner)
	victim := env.seedUser(t, "victim@example.com", false, domain.UserTypeDepartment)
	env.seedDepartment(t, victim.UserID, "Victim")

	for _, actor := range []domain.Actor{admin, ownerTag, victim} {
		err := env.userSvc.DeleteUser(ctx, actor, victim.UserID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}

	assert.ErrorIs(t, env.userSvc.DeleteUser(ctx, su, su.UserID), domain.ErrCannotDeleteSelf)
	assert.ErrorIs(t, env.userSvc.DeleteUser(ctx, su, 999), domain.ErrUserNotFound)
}

func TestDeleteUser_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	su := env.seedUser(t, "root@example.com", true, "")
	resp, err := env.auth.Register(ctx, validRegistration())
	require.NoError(t, err)
	victimID := resp.User.ID

	dept, err := env.deptSvc.Edit(ctx, su, resp.DepartmentID, &DepartmentInput{}, &LogoUpload{
		Filename: "logo.png", Size: 3, Content: bytes.NewReader([]byte("png")),
	})
	require.NoError(t, err)
	other := env.seedDepartment(t, su.UserID, "Kept")

	require.NoError(t, env.userSvc.DeleteUser(ctx, su, victimID))

	_, err = env.users.GetByID(ctx, victimID)
	assert.Error(t, err)
	_, err = env.profiles.GetByUserID(ctx, victimID)
	assert.Error(t, err)
	_, err = env.depts.GetByID(ctx, dept.ID)
	assert.Error(t, err)
	active, err := env.tokens.CountActiveByUserID(ctx, victimID)
	require.NoError(t, err)
	assert.Zero(t, active)

	exists, _ := afero.Exists(env.fs, dept.LogoPath)
	assert.False(t, exists)

	_, err = env.depts.GetByID(ctx, other.ID)
	assert.NoError(t, err)
}

func TestListUsers_Scope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	plain := env.seedUser(t, "plain@example.com", false, "")
	env.seedUser(t, "other@example.com", false, domain.UserTypeDepartment)

	page, err := env.userSvc.ListUsers(ctx, admin, pagination.New(1, 2))
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, int64(3), page.Meta.Total)
	assert.True(t, page.Meta.HasNext)

	page, err = env.userSvc.ListUsers(ctx, plain, pagination.New(1, 20))
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, plain.UserID, page.Results[0].ID)
	// a user without a profile serializes an empty object
	assert.Equal(t, struct{}{}, page.Results[0].Profile)
}

func TestGetUser_Access(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	plain := env.seedUser(t, "plain@example.com", false, "")
	other := env.seedUser(t, "other@example.com", false, "")

	_, err := env.userSvc.GetUser(ctx, plain, plain.UserID)
	assert.NoError(t, err)

	_, err = env.userSvc.GetUser(ctx, plain, other.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.userSvc.GetUser(ctx, admin, other.UserID)
	assert.NoError(t, err)

	_, err = env.userSvc.GetUser(ctx, admin, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	plain := env.seedUser(t, "plain@example.com", false, "")

	input := &CreateUserInput{
		Email:           "new@example.com",
		ConfirmEmail:    "new@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		DepartmentName:  "Clinic",
		UserType:        "owner",
	}

	_, err := env.userSvc.CreateUser(ctx, plain, input)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	created, err := env.userSvc.CreateUser(ctx, admin, input)
	require.NoError(t, err)
	profile, ok := created.Profile.(*models.ProfileResponse)
	require.True(t, ok)
	assert.Equal(t, "owner", profile.UserType)
	assert.Equal(t, "new3", created.Username)

	_, err = env.userSvc.CreateUser(ctx, admin, input)
	assertValidation(t, err, "email")

	bad := *input
	bad.Email, bad.ConfirmEmail, bad.UserType = "x@example.com", "x@example.com", "visitor"
	_, err = env.userSvc.CreateUser(ctx, admin, &bad)
	assertValidation(t, err, "user_type")
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	plain := env.seedUser(t, "plain@example.com", false, "")
	env.seedUser(t, "taken@example.com", false, "")

	// self update creates the missing profile
	updated, err := env.userSvc.UpdateUser(ctx, plain, plain.UserID, &UpdateUserInput{ContactPerson: strPtr("Sam")})
	require.NoError(t, err)
	profile, ok := updated.Profile.(*models.ProfileResponse)
	require.True(t, ok)
	assert.Equal(t, "Sam", profile.ContactPerson)
	assert.Equal(t, "department", profile.UserType)

	// resending the current user type is not a change
	_, err = env.userSvc.UpdateUser(ctx, plain, plain.UserID, &UpdateUserInput{UserType: strPtr("department")})
	require.NoError(t, err)

	_, err = env.userSvc.UpdateUser(ctx, plain, plain.UserID, &UpdateUserInput{UserType: strPtr("admin")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.userSvc.UpdateUser(ctx, plain, plain.UserID, &UpdateUserInput{Email: strPtr("taken@example.com")})
	assertValidation(t, err, "email")

	_, err = env.userSvc.UpdateUser(ctx, admin, admin.UserID, &UpdateUserInput{UserType: strPtr("department")})
	assertValidation(t, err, "user_type")

	updated, err = env.userSvc.UpdateUser(ctx, admin, plain.UserID, &UpdateUserInput{UserType: strPtr("owner")})
	require.NoError(t, err)
	assert.Equal(t, "owner", updated.Profile.(*models.ProfileResponse).UserType)

	_, err = env.userSvc.UpdateUser(ctx, plain, admin.UserID, &UpdateUserInput{ContactPerson: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "p@example.com", false, "")

	login, err := env.auth.Login(ctx, &LoginInput{Email: "p@example.com", Password: "password123"})
	require.NoError(t, err)
	actor, err := env.auth.ResolveActor(ctx, login.User.ID)
	require.NoError(t, err)

	err = env.userSvc.ChangePassword(ctx, actor, &ChangePasswordInput{OldPassword: "wrong", NewPassword: "newpassword1"})
	assertValidation(t, err, "old_password")

	require.NoError(t, env.userSvc.ChangePassword(ctx, actor, &ChangePasswordInput{OldPassword: "password123", NewPassword: "newpassword1"}))

	_, err = env.auth.RefreshToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = env.auth.Login(ctx, &LoginInput{Email: "p@example.com", Password: "newpassword1"})
	assert.NoError(t, err)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	su := env.seedUser(t, "root@example.com", true, "")
	ownerTag := env.seedUser(t, "tagged@example.com", false, domain.UserTypeOwner)
	a := env.seedDepartment(t, ownerTag.UserID, "Alpha")
	env.seedDepartment(t, su.UserID, "Beta")
	_, err := env.deptSvc.Edit(ctx, su, a.ID, &DepartmentInput{PartnershipStatus: strPtr("active")}, nil)
	require.NoError(t, err)

	_, err = env.dashboard.AdminPanel(ctx, ownerTag)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	panel, err := env.dashboard.AdminPanel(ctx, su)
	require.NoError(t, err)
	assert.Equal(t, AdminStats{
		TotalDepartments:     2,
		ActivePartnerships:   1,
		PendingPartnerships:  1,
		InactivePartnerships: 0,
		TotalUsers:           2,
	}, panel.Stats)
	assert.Len(t, panel.Departments, 2)

	owned, err := env.dashboard.OwnerPanel(ctx, ownerTag)
	require.NoError(t, err)
	require.Len(t, owned.Departments, 1)
	assert.Equal(t, "Alpha", owned.Departments[0].DepartmentName)
	require.NotNil(t, owned.Profile)
	assert.Equal(t, "owner", owned.Profile.UserType)

	dash, err := env.dashboard.Dashboard(ctx, ownerTag, pagination.New(1, 20), "")
	require.NoError(t, err)
	assert.Len(t, dash.Departments, 1)
	assert.Equal(t, int64(1), dash.Meta.Total)
}

func TestCronCleanupTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.seedUser(t, "c@example.com", false, "")

	require.NoError(t, env.tokens.Create(ctx, &models.RefreshToken{
		UserID: actor.UserID, TokenHash: "stale", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	cron := NewCronService(env.tokens, "@every 1h")
	cron.CleanupTokens()

	assert.Zero(t, env.count(t, &models.RefreshToken{}))
}
