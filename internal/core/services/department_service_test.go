package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/pagination"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullEditPayload() *DepartmentInput {
	return &DepartmentInput{
		DepartmentName:    strPtr("Library Services"),
		BusinessEmail:     strPtr("library@biz.example.com"),
		Email:             strPtr("library@example.com"),
		ContactPerson:     strPtr("Ana Reyes"),
		ContactNumber:     strPtr("555-0100"),
		PartnershipStatus: strPtr("active"),
		RemarksStatus:     strPtr("Renewed for two years"),
		EstablishedDate:   strPtr("2023-01-15"),
		ExpirationDate:    strPtr("2025-01-15"),
	}
}

func TestDepartmentEdit_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner@example.com", false, domain.UserTypeDepartment)
	dept := env.seedDepartment(t, owner.UserID, "Library")

	first, err := env.deptSvc.Edit(ctx, owner, dept.ID, fullEditPayload(), nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	second, err := env.deptSvc.Edit(ctx, owner, dept.ID, fullEditPayload(), nil)
	require.NoError(t, err)

	a, b := first.ToResponse(), second.ToResponse()
	assert.True(t, b.LastUpdated.After(a.LastUpdated))
	assert.True(t, a.CreatedAt.Equal(b.CreatedAt))
	a.LastUpdated, b.LastUpdated = time.Time{}, time.Time{}
	a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
	assert.Equal(t, a, b)

	assert.Equal(t, "Library Services", b.DepartmentName)
	assert.Equal(t, "green", b.StatusColor)
	require.NotNil(t, b.EstablishedDate)
	assert.Equal(t, "2023-01-15", *b.EstablishedDate)
}

func TestDepartmentEdit_DeniedLeavesRecordUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner@example.com", false, domain.UserTypeDepartment)
	stranger := env.seedUser(t, "stranger@example.com", false, domain.UserTypeDepartment)
	ownerTag := env.seedUser(t, "tagged@example.com", false, domain.UserTypeOwner)
	dept := env.seedDepartment(t, owner.UserID, "Library")

	before, err := env.depts.GetByID(ctx, dept.ID)
	require.NoError(t, err)

	for _, actor := range []domain.Actor{stranger, ownerTag} {
		_, err := env.deptSvc.Edit(ctx, actor, dept.ID, fullEditPayload(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, "You do not have permission to edit this department.", err.Error())
	}

	after, err := env.depts.GetByID(ctx, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, before.ToResponse(), after.ToResponse())
}

func TestDepartmentEdit_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	owner := env.seedUser(t, "owner@example.com", false, "")
	dept := env.seedDepartment(t, owner.UserID, "Library")

	tests := []struct {
		name  string
		input *DepartmentInput
		field string
	}{
		{"unknown status", &DepartmentInput{PartnershipStatus: strPtr("OK")}, "partnership_status"},
		{"bad date", &DepartmentInput{EstablishedDate: strPtr("15/01/2023")}, "established_date"},
		{"expiration before established", &DepartmentInput{
			EstablishedDate: strPtr("2024-06-01"),
			ExpirationDate:  strPtr("2024-05-31"),
		}, "expiration_date"},
		{"blank name", &DepartmentInput{DepartmentName: strPtr("  ")}, "department_name"},
		{"bad contact email", &DepartmentInput{Email: strPtr("nope")}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.deptSvc.Edit(ctx, admin, dept.ID, tt.input, nil)
			assertValidation(t, err, tt.field)
		})
	}

	stored, err := env.depts.GetByID(ctx, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", stored.PartnershipStatus)
	assert.Nil(t, stored.EstablishedDate)
}

func TestDepartmentEdit_EmptyDatesKeepStoredValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner@example.com", false, "")
	dept := env.seedDepartment(t, owner.UserID, "Library")

	_, err := env.deptSvc.Edit(ctx, owner, dept.ID, &DepartmentInput{EstablishedDate: strPtr("2022-02-02")}, nil)
	require.NoError(t, err)

	updated, err := env.deptSvc.Edit(ctx, owner, dept.ID, &DepartmentInput{EstablishedDate: strPtr("")}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.EstablishedDate)
	assert.Equal(t, "2022-02-02", updated.EstablishedDate.Format("2006-01-02"))
}

func TestDepartmentEdit_LogoReplacement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner@example.com", false, "")
	dept := env.seedDepartment(t, owner.UserID, "Library")

	first, err := env.deptSvc.Edit(ctx, owner, dept.ID, &DepartmentInput{}, &LogoUpload{
		Filename: "logo.png", Size: 4, Content: bytes.NewReader([]byte("png1")),
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.LogoPath)
	oldPath := first.LogoPath

	second, err := env.deptSvc.Edit(ctx, owner, dept.ID, &DepartmentInput{}, &LogoUpload{
		Filename: "logo.jpg", Size: 4, Content: bytes.NewReader([]byte("jpg2")),
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldPath, second.LogoPath)

	exists, _ := afero.Exists(env.fs, oldPath)
	assert.False(t, exists)
	exists, _ = afero.Exists(env.fs, second.LogoPath)
	assert.True(t, exists)

	_, err = env.deptSvc.Edit(ctx, owner, dept.ID, &DepartmentInput{}, &LogoUpload{
		Filename: "script.exe", Size: 4, Content: bytes.NewReader([]byte("exe!")),
	})
	assertValidation(t, err, "logo_path")

	require.NoError(t, env.deptSvc.Delete(ctx, owner, dept.ID))
	exists, _ = afero.Exists(env.fs, second.LogoPath)
	assert.False(t, exists)
}

func TestDepartmentList_Scope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	su := env.seedUser(t, "root@example.com", true, "")
	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	ownerTag := env.seedUser(t, "tagged@example.com", false, domain.UserTypeOwner)
	plain := env.seedUser(t, "plain@example.com", false, "")

	mine := env.seedDepartment(t, ownerTag.UserID, "Mine")
	env.seedDepartment(t, plain.UserID, "Plain")
	env.seedDepartment(t, su.UserID, "Root")

	all := pagination.New(1, 50)

	for _, actor := range []domain.Actor{su, admin} {
		depts, total, err := env.deptSvc.List(ctx, actor, all, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, depts, 3)
	}

	// the owner tag does not grant see-all
	depts, total, err := env.deptSvc.List(ctx, ownerTag, all, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, depts, 1)
	assert.Equal(t, mine.ID, depts[0].ID)

	_, _, err = env.deptSvc.List(ctx, su, all, "bogus")
	assertValidation(t, err, "status")
}

func TestDepartmentGetAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner@example.com", false, "")
	ownerTag := env.seedUser(t, "tagged@example.com", false, domain.UserTypeOwner)
	stranger := env.seedUser(t, "stranger@example.com", false, "")
	dept := env.seedDepartment(t, owner.UserID, "Library")

	_, err := env.deptSvc.Get(ctx, owner, 999)
	assert.ErrorIs(t, err, domain.ErrDepartmentNotFound)

	_, err = env.deptSvc.Get(ctx, stranger, dept.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := env.deptSvc.Get(ctx, ownerTag, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", got.ToResponse().UserEmail)

	assert.ErrorIs(t, env.deptSvc.Delete(ctx, stranger, dept.ID), domain.ErrForbidden)
	require.NoError(t, env.deptSvc.Delete(ctx, ownerTag, dept.ID))
	assert.ErrorIs(t, env.deptSvc.Delete(ctx, ownerTag, dept.ID), domain.ErrDepartmentNotFound)
}

func TestDepartmentCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	plain := env.seedUser(t, "plain@example.com", false, "")

	input := &DepartmentInput{
		DepartmentName: strPtr("Clinic"),
		BusinessEmail:  strPtr("clinic@biz.example.com"),
		Email:          strPtr("clinic@example.com"),
	}

	created, err := env.deptSvc.Create(ctx, plain, input, nil)
	require.NoError(t, err)
	assert.Equal(t, plain.UserID, created.OwnerID)
	assert.Equal(t, "pending", created.PartnershipStatus)

	input.Owner = &plain.UserID
	created, err = env.deptSvc.Create(ctx, admin, input, nil)
	require.NoError(t, err)
	assert.Equal(t, plain.UserID, created.OwnerID)

	// only administrators may create for someone else
	input.Owner = &admin.UserID
	_, err = env.deptSvc.Create(ctx, plain, input, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	missing := uint(999)
	input.Owner = &missing
	_, err = env.deptSvc.Create(ctx, admin, input, nil)
	assertValidation(t, err, "owner")

	_, err = env.deptSvc.Create(ctx, plain, &DepartmentInput{DepartmentName: strPtr("No email")}, nil)
	assertValidation(t, err, "email")
}

func TestReviewRemarks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "admin@example.com", false, domain.UserTypeAdmin)
	ownerTag := env.seedUser(t, "tagged@example.com", false, domain.UserTypeOwner)
	dept := env.seedDepartment(t, ownerTag.UserID, "Library")

	_, err := env.deptSvc.ReviewRemarks(ctx, ownerTag, dept.ID, "self review")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := env.deptSvc.ReviewRemarks(ctx, admin, dept.ID, "MOA received")
	require.NoError(t, err)
	assert.Equal(t, "MOA received", updated.RemarksStatus)
	assert.Equal(t, "Library", updated.DepartmentName)

	_, err = env.deptSvc.ReviewRemarks(ctx, admin, 999, "x")
	assert.ErrorIs(t, err, domain.ErrDepartmentNotFound)
}
