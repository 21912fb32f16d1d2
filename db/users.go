/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, username, email, password_hash, role, first_name, last_name,
	phone, specialization, license_number, is_active, created_at, last_login`

// CreateUserInput defines data for creating a portal account.
type CreateUserInput struct {
	Username       string
	Email          string
	PasswordHash   string
	Role           Role
	FirstName      string
	LastName       string
	Phone          *string
	Specialization *string
	LicenseNumber  *string
}

// UpdateUserInput defines the mutable account fields. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	Email          *string
	FirstName      *string
	LastName       *string
	Phone          *string
	Specialization *string
	LicenseNumber  *string
	IsActive       *bool
	Role           *Role
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Specialization,
		&user.LicenseNumber,
		&user.IsActive,
		&user.CreatedAt,
		&user.LastLogin,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an account record. Duplicate usernames and emails map
// to sentinel errors so handlers can answer 409 without string matching.
func CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		INSERT INTO users (username, email, password_hash, role, first_name, last_name,
			phone, specialization, license_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	user, err := scanUser(pool.QueryRow(ctx, query,
		input.Username,
		input.Email,
		input.PasswordHash,
		input.Role,
		input.FirstName,
		input.LastName,
		input.Phone,
		input.Specialization,
		input.LicenseNumber,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, ErrDuplicateEmail
			}
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByID returns an account by ID.
func GetUserByID(ctx context.Context, id string) (*User, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	user, err := scanUser(pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByUsername returns an account by username.
func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	user, err := scanUser(pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetUserByEmail returns an account by email.
func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	user, err := scanUser(pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns accounts ordered by creation time, optionally filtered
// by role.
func ListUsers(ctx context.Context, role *Role) ([]User, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// ListActiveDoctors returns active doctor accounts for the directory.
func ListActiveDoctors(ctx context.Context) ([]User, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 AND is_active ORDER BY last_name, first_name`,
		RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []User
	for rows.Next() {
		doctor, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, *doctor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctors: %w", err)
	}

	return doctors, nil
}

// UpdateUser applies the non-nil fields of input to an account.
func UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	sets := []string{}
	args := []any{}
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if input.Email != nil {
		sets = append(sets, "email = "+arg(*input.Email))
	}
	if input.FirstName != nil {
		sets = append(sets, "first_name = "+arg(*input.FirstName))
	}
	if input.LastName != nil {
		sets = append(sets, "last_name = "+arg(*input.LastName))
	}
	if input.Phone != nil {
		sets = append(sets, "phone = "+arg(*input.Phone))
	}
	if input.Specialization != nil {
		sets = append(sets, "specialization = "+arg(*input.Specialization))
	}
	if input.LicenseNumber != nil {
		sets = append(sets, "license_number = "+arg(*input.LicenseNumber))
	}
	if input.IsActive != nil {
		sets = append(sets, "is_active = "+arg(*input.IsActive))
	}
	if input.Role != nil {
		sets = append(sets, "role = "+arg(*input.Role))
	}

	if len(sets) == 0 {
		return GetUserByID(ctx, id)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + arg(id) + ` RETURNING ` + userColumns

	user, err := scanUser(pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes an account by ID.
func DeleteUser(ctx context.Context, id string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	command, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if command.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the account's most recent successful login.
func UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	_, err := pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces an account's stored password hash.
func UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	command, err := pool.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if command.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
