// SPDX-FileCopyrightText: 2025 The Strokeward Authors
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/strokeward/strokeward/db"
)

func withTestSecret(t *testing.T, secret string) {
	t.Helper()

	original := jwtSecret
	if err := InitAuth(secret); err != nil {
		t.Fatalf("InitAuth failed: %v", err)
	}

	t.Cleanup(func() {
		jwtSecret = original
	})
}

func testUser() *db.User {
	return &db.User{
		ID:       uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Username: "drsmith",
		Role:     db.RoleDoctor,
	}
}

func TestInitAuthRequiresSecret(t *testing.T) {
	if err := InitAuth(""); !errors.Is(err, errJWTSecretRequired) {
		t.Fatalf("expected errJWTSecretRequired, got %v", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	withTestSecret(t, "test-secret")

	user := testUser()
	token, err := issueAccessToken(user, time.Now())
	if err != nil {
		t.Fatalf("issueAccessToken failed: %v", err)
	}

	claims, err := parseAccessToken(token)
	if err != nil {
		t.Fatalf("parseAccessToken failed: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Fatalf("expected subject %q, got %q", user.ID.String(), claims.Subject)
	}
	if claims.Username != "drsmith" || claims.Role != "doctor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	withTestSecret(t, "test-secret")

	issuedAt := time.Now().Add(-2 * accessTokenLifetime)
	token, err := issueAccessToken(testUser(), issuedAt)
	if err != nil {
		t.Fatalf("issueAccessToken failed: %v", err)
	}

	if _, err := parseAccessToken(token); !errors.Is(err, errTokenInvalid) {
		t.Fatalf("expected errTokenInvalid for expired token, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	withTestSecret(t, "first-secret")
	token, err := issueAccessToken(testUser(), time.Now())
	if err != nil {
		t.Fatalf("issueAccessToken failed: %v", err)
	}

	withTestSecret(t, "second-secret")
	if _, err := parseAccessToken(token); !errors.Is(err, errTokenInvalid) {
		t.Fatalf("expected errTokenInvalid for wrong secret, got %v", err)
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	withTestSecret(t, "test-secret")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := parseAccessToken(raw); !errors.Is(err, errTokenInvalid) {
			t.Fatalf("expected errTokenInvalid for %q, got %v", raw, err)
		}
	}
}
