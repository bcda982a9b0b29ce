package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"osa-partnership/internal/adapters/persistence/dbtest"
	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/config"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/password"
	"osa-partnership/internal/pkg/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	fs        afero.Fs
	users     repositories.UserRepository
	profiles  repositories.ProfileRepository
	depts     repositories.DepartmentRepository
	tokens    repositories.RefreshTokenRepository
	auth      *AuthService
	userSvc   *UserService
	deptSvc   *DepartmentService
	dashboard *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	password.Cost = bcrypt.MinCost

	db := dbtest.New(t)
	fs := afero.NewMemMapFs()
	logos := storage.NewLogoStore(fs)

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	env := &testEnv{
		db:       db,
		fs:       fs,
		users:    repositories.NewUserRepository(db),
		profiles: repositories.NewProfileRepository(db),
		depts:    repositories.NewDepartmentRepository(db),
		tokens:   repositories.NewRefreshTokenRepository(db),
	}
	tx := repositories.NewTransactor(db)

	env.auth = NewAuthService(env.users, env.profiles, env.depts, env.tokens, tx, cfg)
	env.userSvc = NewUserService(env.users, env.profiles, env.depts, env.tokens, tx, logos)
	env.deptSvc = NewDepartmentService(env.depts, env.users, logos)
	env.dashboard = NewDashboardService(env.depts, env.users, env.deptSvc)
	return env
}

// seedUser creates an identity with an optional profile tag and returns its actor
func (e *testEnv) seedUser(t *testing.T, email string, superuser bool, userType domain.UserType) domain.Actor {
	t.Helper()
	ctx := context.Background()

	hashed, err := password.Hash("password123")
	require.NoError(t, err)

	user := &models.User{
		Username:    strings.Split(email, "@")[0],
		Email:       email,
		Password:    hashed,
		IsSuperuser: superuser,
		IsActive:    true,
	}
	require.NoError(t, e.users.Create(ctx, user))

	if userType != "" {
		require.NoError(t, e.profiles.Create(ctx, &models.UserProfile{UserID: user.ID, UserType: string(userType)}))
	}

	stored, err := e.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	return stored.ToActor()
}

func (e *testEnv) seedDepartment(t *testing.T, owner uint, name string) *models.Department {
	t.Helper()
	dept := &models.Department{
		OwnerID:           owner,
		DepartmentName:    name,
		BusinessEmail:     strings.ToLower(name) + "@biz.example.com",
		Email:             strings.ToLower(name) + "@example.com",
		PartnershipStatus: "pending",
	}
	require.NoError(t, e.depts.Create(context.Background(), dept))
	return dept
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func validRegistration() *RegisterInput {
	return &RegisterInput{
		BusinessEmail:   "biz@example.com",
		DepartmentName:  "College of Engineering",
		ContactPerson:   "Jamie Cruz",
		ContactNumber:   "0917-000-0000",
		Email:           "eng@example.com",
		ConfirmEmail:    "eng@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func strPtr(s string) *string { return &s }

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
	require.Equal(t, field, vErr.Field)
}
