/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// resetTokenLifetime is how long a password reset link stays valid.
const resetTokenLifetime = time.Hour

// hashResetToken derives the stored digest; raw tokens never touch the
// database.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// StorePasswordResetToken records a reset token for a user, replacing any
// earlier outstanding token.
func StorePasswordResetToken(ctx context.Context, userID uuid.UUID, token string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	// One outstanding token per user keeps older emailed links from working.
	if _, err := pool.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear previous reset tokens: %w", err)
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO password_reset_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, hashResetToken(token), userID, time.Now().UTC().Add(resetTokenLifetime))
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// ConsumePasswordResetToken validates a raw reset token and marks it used,
// returning the owning user ID. Expired, unknown and already-used tokens all
// map to ErrResetTokenInvalid.
func ConsumePasswordResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	if pool == nil {
		return uuid.Nil, ErrDatabaseConnectionNotInitialized
	}

	var userID uuid.UUID
	err := pool.QueryRow(ctx, `
		UPDATE password_reset_tokens
		SET used_at = NOW()
		WHERE token_hash = $1 AND expires_at > NOW() AND used_at IS NULL
		RETURNING user_id
	`, hashResetToken(token)).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrResetTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}
