/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"

	"github.com/flamego/flamego"

	"github.com/strokeward/strokeward/db"
)

// RequireAuth validates the bearer token and injects the authenticated
// account into the request context for downstream handlers.
func RequireAuth(c flamego.Context) {
	token, err := bearerToken(c.Request().Header.Get("Authorization"))
	if err != nil {
		logAccessDenied(c, err.Error(), http.StatusUnauthorized)
		writeError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	claims, err := parseAccessToken(token)
	if err != nil {
		logAccessDenied(c, "invalid token", http.StatusUnauthorized)
		writeError(c, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	user, err := db.GetUserByID(c.Request().Context(), claims.Subject)
	if err != nil {
		logAccessDenied(c, "unknown token subject", http.StatusUnauthorized)
		writeError(c, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	if !user.IsActive {
		logAccessDenied(c, "account deactivated", http.StatusUnauthorized, "user_id", user.ID.String())
		writeError(c, http.StatusUnauthorized, "account deactivated")
		return
	}

	c.Map(user)
	c.Next()
}

// RequireRole allows only the listed roles past. Must run after RequireAuth.
func RequireRole(roles ...db.Role) flamego.Handler {
	return func(c flamego.Context, user *db.User) {
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		logAccessDenied(c, "insufficient role", http.StatusForbidden,
			"user_id", user.ID.String(), "role", string(user.Role))
		writeError(c, http.StatusForbidden, "insufficient permissions")
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errMalformedAuthHeader
	}

	return strings.TrimSpace(token), nil
}
