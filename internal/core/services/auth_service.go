package services

import (
	"context"
	"errors"
	"log"

	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/config"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/jwt"
	"osa-partnership/internal/pkg/password"

	"github.com/google/uuid"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	deptRepo         repositories.DepartmentRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tx               repositories.Transactor
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	deptRepo repositories.DepartmentRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tx repositories.Transactor,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		deptRepo:         deptRepo,
		refreshTokenRepo: refreshTokenRepo,
		tx:               tx,
		cfg:              cfg,
	}
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents an authenticated session
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	Landing      domain.Landing       `json:"landing"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// RegisterResponse is an authenticated session plus the department created at signup
type RegisterResponse struct {
	AuthResponse
	DepartmentID uint `json:"department_id"`
}

// Register validates the form, then creates the identity, its profile and
// its first department in one transaction, then opens a session.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*RegisterResponse, error) {
	// 1. Validate
	if err := validateNewIdentity(ctx, s.userRepo, input.Email, input.ConfirmEmail, input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}

	// 2. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Persist identity + profile + department
	var user *models.User
	var dept *models.Department
	err = withUsernameRetry(ctx, s.userRepo, input.Email, func() error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			user, dept, err = s.createRegistration(ctx, input, hashedPassword)
			return err
		})
	})
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return nil, err
		}
		return nil, domain.PersistenceError("register", err)
	}

	// 4. Open a session
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s (department ID: %d)", user.Username, dept.ID)

	return &RegisterResponse{
		AuthResponse: AuthResponse{
			User:         user.ToResponse(),
			Landing:      domain.Landing{Kind: domain.LandingDepartment, DepartmentID: dept.ID},
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		},
		DepartmentID: dept.ID,
	}, nil
}

// createRegistration inserts the identity, its profile and its first
// department. It runs inside the registration transaction.
func (s *AuthService) createRegistration(ctx context.Context, input *RegisterInput, hashedPassword string) (*models.User, *models.Department, error) {
	username, err := repositories.NextUsername(ctx, s.userRepo, input.Email)
	if err != nil {
		return nil, nil, err
	}

	u := &models.User{
		Username: username,
		Email:    input.Email,
		Password: hashedPassword,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, nil, err
	}

	u.Profile = &models.UserProfile{
		UserID:         u.ID,
		BusinessEmail:  input.BusinessEmail,
		DepartmentName: input.DepartmentName,
		ContactPerson:  input.ContactPerson,
		ContactNumber:  input.ContactNumber,
		UserType:       string(domain.UserTypeDepartment),
	}
	if err := s.profileRepo.Create(ctx, u.Profile); err != nil {
		return nil, nil, err
	}

	d := &models.Department{
		OwnerID:           u.ID,
		DepartmentName:    input.DepartmentName,
		BusinessEmail:     input.BusinessEmail,
		Email:             input.Email,
		ContactPerson:     input.ContactPerson,
		ContactNumber:     input.ContactNumber,
		PartnershipStatus: string(domain.StatusPending),
	}
	if err := s.deptRepo.Create(ctx, d); err != nil {
		return nil, nil, err
	}

	return u, d, nil
}

// Login authenticates by email and dispatches the actor to its landing
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, storeError("login", err, domain.ErrUserNotFound)
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Check if user is active
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 4. Dispatch
	landing, err := s.Landing(ctx, user.ToActor())
	if err != nil {
		return nil, err
	}

	// 5. Open a session
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		Landing:      landing,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Landing resolves where an authenticated actor is sent
func (s *AuthService) Landing(ctx context.Context, actor domain.Actor) (domain.Landing, error) {
	if domain.Classify(actor) == domain.TierSuperuser {
		return domain.Dispatch(actor, 0), nil
	}

	deptID, err := s.deptRepo.FindAnyIDByOwner(ctx, actor.UserID)
	if err != nil {
		return domain.Landing{}, domain.PersistenceError("find owned department", err)
	}
	return domain.Dispatch(actor, deptID), nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	// 2. Find token in DB by hash
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return nil, storeError("refresh", err, domain.ErrTokenInvalid)
	}

	// 3. Reject revoked or expired tokens
	if storedToken.IsRevoked() {
		return nil, domain.ErrTokenInvalid
	}
	if storedToken.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	// 4. Get user
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, storeError("refresh", err, domain.ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 5. Revoke old refresh token (rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, domain.PersistenceError("revoke refresh token", err)
	}

	// 6. Issue new tokens
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	landing, err := s.Landing(ctx, user.ToActor())
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		Landing:      landing,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return domain.PersistenceError("logout", err)
	}

	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return domain.PersistenceError("logout all", err)
	}

	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// ResolveActor loads the identity behind a session, with its profile.
// Deleted and deactivated identities no longer resolve.
func (s *AuthService) ResolveActor(ctx context.Context, userID uint) (domain.Actor, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Actor{}, storeError("resolve actor", err, domain.ErrUserNotFound)
	}
	if !user.IsActive {
		return domain.Actor{}, domain.ErrUserInactive
	}
	return user.ToActor(), nil
}

// issueTokens generates a token pair and stores the refresh token hash
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return nil, domain.PersistenceError("store refresh token", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
