package middleware

import (
	"context"
	"errors"
	"strings"

	"osa-partnership/internal/config"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/jwt"
	"osa-partnership/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// ActorResolver loads the identity behind a session
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uint) (domain.Actor, error)
}

// AuthMiddleware requires a valid access token and stores the resolved actor
// in the request locals
func AuthMiddleware(cfg *config.Config, resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Cookie first, then Authorization header
		accessToken := tokenFrom(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 2. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 3. Load the actor fresh from the store
		actor, err := resolver.ResolveActor(c.UserContext(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserInactive):
				return response.Forbidden(c, "User account is inactive")
			case errors.Is(err, domain.ErrUserNotFound):
				return response.Unauthorized(c, "User no longer exists")
			default:
				return response.InternalServerError(c, "Failed to load session")
			}
		}

		c.Locals(actorKey, actor)
		c.Locals("userID", actor.UserID)

		return c.Next()
	}
}

// OptionalAuth stores the actor when a valid session is present and never rejects
func OptionalAuth(cfg *config.Config, resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := tokenFrom(c); accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				if actor, err := resolver.ResolveActor(c.UserContext(), claims.UserID); err == nil {
					c.Locals(actorKey, actor)
					c.Locals("userID", actor.UserID)
				}
			}
		}

		return c.Next()
	}
}

// RequireAction lets the request through only when the actor may perform a
// department-independent action. Must run after AuthMiddleware.
func RequireAction(action domain.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if decision := domain.Authorize(actor, action, nil); !decision.Allowed {
			return response.Forbidden(c, decision.Reason)
		}
		return c.Next()
	}
}

// ActorFrom returns the actor stored by AuthMiddleware or OptionalAuth
func ActorFrom(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(actorKey).(domain.Actor)
	return actor, ok
}

func tokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
