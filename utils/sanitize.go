/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package utils holds small input-handling helpers shared by the route
// handlers: sanitization of free-text fields and credential validation.
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	angleBrackets  = regexp.MustCompile(`[<>]`)
	javascriptURI  = regexp.MustCompile(`(?i)javascript:`)
	inlineHandlers = regexp.MustCompile(`(?i)on\w+=`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// SanitizeInput strips the characters and fragments most commonly abused in
// stored-XSS payloads and trims surrounding whitespace. It is a display-safety
// measure for free-text fields, not a substitute for output encoding.
func SanitizeInput(input string) string {
	if input == "" {
		return input
	}

	sanitized := angleBrackets.ReplaceAllString(input, "")
	sanitized = javascriptURI.ReplaceAllString(sanitized, "")
	sanitized = inlineHandlers.ReplaceAllString(sanitized, "")

	return strings.TrimSpace(sanitized)
}

// ValidateEmail reports whether the address has a plausible mailbox@domain
// shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// ValidatePassword enforces the portal password policy: at least 8
// characters with an uppercase letter, a lowercase letter and a digit.
// The first violated rule is returned so the caller can surface it directly.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasLower:
		return ErrPasswordNoLower
	case !hasDigit:
		return ErrPasswordNoDigit
	}
	return nil
}
