package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	ActorIDKey   contextKey = "actor_id"
	ActorRoleKey contextKey = "actor_role"
)

// Allowed is the role check as a pure decision: it reports whether an actor
// holding actual may pass a gate requiring required.
func Allowed(required, actual string) bool {
	return required == actual
}

// Require guards a route group for one actor role. It extracts the bearer
// token, verifies it, checks the role, and binds the actor identity to the
// request context. Missing or invalid tokens are 401; a valid token of the
// wrong role is 403. The guarded handler never runs on rejection.
func Require(signer *Signer, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := signer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if !Allowed(role, claims.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "required role: "+role)
			}

			actorID, err := claims.ActorID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ActorIDKey, actorID)
			ctx = context.WithValue(ctx, ActorRoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ActorIDFromContext returns the authenticated actor identifier, or uuid.Nil
// when the request passed through no auth gate.
func ActorIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ActorIDKey).(uuid.UUID)
	return id
}

// RoleFromContext returns the authenticated actor role.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(ActorRoleKey).(string)
	return role
}

// RequireOwner rejects requests whose authenticated actor differs from the
// resource owner named in the path. Listing and mutation endpoints are scoped
// to the caller's own records.
func RequireOwner(c echo.Context, ownerID uuid.UUID) error {
	if ActorIDFromContext(c.Request().Context()) != ownerID {
		return echo.NewHTTPError(http.StatusForbidden, "access to another actor's resource")
	}
	return nil
}
