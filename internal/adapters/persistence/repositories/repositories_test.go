package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"osa-partnership/internal/adapters/persistence/dbtest"
	"osa-partnership/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, repo UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{Username: email, Email: email, Password: "x", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)

	u := createUser(t, users, "a@example.com")
	require.NoError(t, profiles.Create(ctx, &models.UserProfile{UserID: u.ID, UserType: "admin"}))

	got, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "admin", got.Profile.UserType)

	exists, err := users.ExistsByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	// unique email is enforced by the store
	err = users.Create(ctx, &models.User{Username: "other", Email: "a@example.com", Password: "x"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	_, err = users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDepartmentRepository_ListAndScope(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	depts := NewDepartmentRepository(db)

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	for _, d := range []*models.Department{
		{OwnerID: alice.ID, DepartmentName: "A1", BusinessEmail: "a1@x.com", Email: "a1@x.com", PartnershipStatus: "active"},
		{OwnerID: alice.ID, DepartmentName: "A2", BusinessEmail: "a2@x.com", Email: "a2@x.com", PartnershipStatus: "pending"},
		{OwnerID: bob.ID, DepartmentName: "B1", BusinessEmail: "b1@x.com", Email: "b1@x.com", PartnershipStatus: "pending"},
	} {
		require.NoError(t, depts.Create(ctx, d))
	}

	all, total, err := depts.List(ctx, DepartmentFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)
	assert.Equal(t, "alice@example.com", all[0].Owner.Email)

	owned, total, err := depts.List(ctx, DepartmentFilter{OwnerID: &bob.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "B1", owned[0].DepartmentName)

	id, err := depts.FindAnyIDByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotZero(t, id)

	id, err = depts.FindAnyIDByOwner(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, id)

	counts, err := depts.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["active"])
	assert.Equal(t, int64(2), counts["pending"])
}

func TestDepartmentRepository_UpdateRefreshesLastUpdated(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	depts := NewDepartmentRepository(db)

	owner := createUser(t, users, "o@example.com")
	dept := &models.Department{OwnerID: owner.ID, DepartmentName: "D", BusinessEmail: "d@x.com", Email: "d@x.com"}
	require.NoError(t, depts.Create(ctx, dept))

	stored, err := depts.GetByID(ctx, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", stored.PartnershipStatus)
	created, before := stored.CreatedAt, stored.LastUpdated

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, depts.UpdateRemarks(ctx, dept.ID, "looks good"))

	after, err := depts.GetByID(ctx, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "looks good", after.RemarksStatus)
	assert.True(t, after.LastUpdated.After(before))
	assert.True(t, after.CreatedAt.Equal(created))

	err = depts.UpdateRemarks(ctx, 999, "x")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTransactorRollsBack(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	tx := NewTransactor(db)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u := &models.User{Username: "t", Email: "t@example.com", Password: "x"}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		if err := profiles.Create(ctx, &models.UserProfile{UserID: u.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	tokens := NewRefreshTokenRepository(db)

	u := createUser(t, users, "r@example.com")
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{UserID: u.ID, TokenHash: "old", ExpiresAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{UserID: u.ID, TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{UserID: u.ID, TokenHash: "revoked", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, tokens.RevokeByTokenHash(ctx, "revoked"))

	removed, err := tokens.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	active, err := tokens.CountActiveByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)
}

func TestNextUsername(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	name, err := NextUsername(ctx, users, "eng@example.com")
	require.NoError(t, err)
	assert.Equal(t, "eng1", name)

	createUser(t, users, "a@example.com")
	require.NoError(t, users.Create(ctx, &models.User{Username: "eng3", Email: "b@example.com", Password: "x"}))

	// two identities exist, eng3 is taken
	name, err = NextUsername(ctx, users, "eng@example.com")
	require.NoError(t, err)
	assert.Equal(t, "eng4", name)

	name, err = NextUsername(ctx, users, "@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user3", name)
}
