// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// # Password Strength Policy

const (
	// PasswordMinLength is the minimum number of characters.
	PasswordMinLength = 8

	// PasswordMaxBytes is bcrypt's input limit; longer inputs cannot be hashed.
	PasswordMaxBytes = 72

	// PasswordSymbols is the punctuation set that satisfies the symbol rule.
	PasswordSymbols = `!@#$%^&*(),.?":{}|<>`
)

// Rule names reported by [WeakPasswordError].
const (
	RuleMinLength = "min_length"
	RuleMaxLength = "max_length"
	RuleUppercase = "uppercase"
	RuleLowercase = "lowercase"
	RuleDigit     = "digit"
	RuleSymbol    = "symbol"
)

// WeakPasswordError describes the first strength rule a password violated.
type WeakPasswordError struct {
	Rule   string
	Reason string
}

// Error returns the human-readable reason.
func (e *WeakPasswordError) Error() string { return e.Reason }

// CheckPasswordStrength validates a plain-text password against the composite
// policy. It returns nil when every rule passes, otherwise a [*WeakPasswordError].
func CheckPasswordStrength(plainTextPassword string) error {
	if utf8.RuneCountInString(plainTextPassword) < PasswordMinLength {
		return &WeakPasswordError{Rule: RuleMinLength, Reason: "Password must be at least 8 characters long"}
	}

	if len(plainTextPassword) > PasswordMaxBytes {
		return &WeakPasswordError{Rule: RuleMaxLength, Reason: "Password must be at most 72 bytes long"}
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range plainTextPassword {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return &WeakPasswordError{Rule: RuleUppercase, Reason: "Password must contain at least one uppercase letter"}
	case !hasLower:
		return &WeakPasswordError{Rule: RuleLowercase, Reason: "Password must contain at least one lowercase letter"}
	case !hasDigit:
		return &WeakPasswordError{Rule: RuleDigit, Reason: "Password must contain at least one digit"}
	case !hasSymbol:
		return &WeakPasswordError{Rule: RuleSymbol, Reason: "Password must contain at least one special character (" + PasswordSymbols + ")"}
	}

	return nil
}
