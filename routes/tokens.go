/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/strokeward/strokeward/db"
)

const accessTokenLifetime = 24 * time.Hour

var jwtSecret []byte

// InitAuth sets the signing secret for access tokens. Must be called before
// the server starts accepting requests.
func InitAuth(secret string) error {
	if secret == "" {
		return errJWTSecretRequired
	}
	jwtSecret = []byte(secret)
	return nil
}

type accessClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func issueAccessToken(user *db.User, now time.Time) (string, error) {
	claims := accessClaims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    "strokeward",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenLifetime)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func parseAccessToken(raw string) (*accessClaims, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errTokenInvalid
	}
	return claims, nil
}
