package handlers

import (
	"errors"
	"strings"
	"time"

	"osa-partnership/internal/config"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/core/services"
	"osa-partnership/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login, signup and session endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginPage handles the entry point
// @Summary Entry point
// @Description Sends an authenticated actor to its landing page; otherwise asks for credentials
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
// @Router /partnership/ [get]
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Success(c, "Please log in", fiber.Map{"authenticated": false})
	}

	landing, err := h.authService.Landing(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err, "Failed to resolve landing page")
	}

	return response.Redirect(c, "Already logged in", LandingPath(landing), fiber.Map{
		"authenticated": true,
		"landing":       landing,
	})
}

// Login handles user login
// @Summary Log in
// @Description Authenticate by email and password, then dispatch to the landing page
// @Tags Auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router / [post]
// @Router /partnership/ [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return response.ValidationFailed(c, "email", "Email is required")
	}
	if req.Password == "" {
		return response.ValidationFailed(c, "password", "Password is required")
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.Unauthorized(c, "User not found")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, domain.ErrUserInactive):
			return response.Forbidden(c, "User account is inactive")
		default:
			return respondError(c, err, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Redirect(c, "Login successful", LandingPath(result.Landing), fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
		"landing":      result.Landing,
	})
}

// Signup handles self-registration
// @Summary Sign up
// @Description Create an account, its profile and its first department, then log in
// @Tags Auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /partnership/signup/ [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = strings.TrimSpace(req.Email)
	req.ConfirmEmail = strings.TrimSpace(req.ConfirmEmail)
	req.BusinessEmail = strings.TrimSpace(req.BusinessEmail)
	req.DepartmentName = strings.TrimSpace(req.DepartmentName)

	result, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to register")
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success:  true,
		Message:  "Account created successfully",
		Redirect: DepartmentPath(result.DepartmentID),
		Data: fiber.Map{
			"access_token":  result.AccessToken,
			"user":          result.User,
			"department_id": result.DepartmentID,
		},
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Rotate the refresh token cookie and issue a new access token
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /partnership/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.UserContext(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrUserNotFound):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token")
		case errors.Is(err, domain.ErrUserInactive):
			h.clearAuthCookies(c)
			return response.Forbidden(c, "User account is inactive")
		default:
			return respondError(c, err, "Failed to refresh token")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Logout handles user logout
// @Summary Log out
// @Description Revoke the refresh token and clear the session cookies
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /partnership/logout/ [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	_ = h.authService.Logout(c.UserContext(), c.Cookies("refresh_token"))

	h.clearAuthCookies(c)

	return response.Redirect(c, "Logged out successfully", LoginPath, nil)
}

// LogoutAll handles logout from all devices
// @Summary Log out everywhere
// @Description Revoke all refresh tokens of the current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /partnership/logout-all/ [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.LogoutAll(c.UserContext(), actor.UserID); err != nil {
		return respondError(c, err, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Redirect(c, "Logged out from all devices", LoginPath, nil)
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies expires both session cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
