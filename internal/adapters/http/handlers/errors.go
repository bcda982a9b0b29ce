package handlers

import (
	"errors"
	"log"
	"strconv"

	"osa-partnership/internal/adapters/http/middleware"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the API response helpers
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var vErr *domain.ValidationError
	var aErr *domain.AuthorizationError

	switch {
	case errors.As(err, &vErr):
		return response.ValidationFailed(c, vErr.Field, vErr.Message)
	case errors.As(err, &aErr):
		return response.Forbidden(c, aErr.Reason)
	case errors.Is(err, domain.ErrDepartmentNotFound):
		return response.NotFound(c, "Department not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrCannotDeleteSelf):
		return response.BadRequest(c, "You cannot delete your own account")
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, "A record with the same unique value already exists")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	default:
		log.Printf("❌ %s: %v", fallback, err)
		return response.InternalServerError(c, fallback)
	}
}

// respondWebError is respondError for browser routes: a denied action sends
// the caller back to the dashboard
func respondWebError(c *fiber.Ctx, err error, fallback string) error {
	var aErr *domain.AuthorizationError
	if errors.As(err, &aErr) {
		return response.ForbiddenRedirect(c, aErr.Reason, DashboardPath)
	}
	return respondError(c, err, fallback)
}

// currentActor returns the actor set by the auth middleware
func currentActor(c *fiber.Ctx) (domain.Actor, bool) {
	return middleware.ActorFrom(c)
}

// parseID reads a positive integer route parameter
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
