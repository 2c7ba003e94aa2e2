// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package email canonicalises email addresses before they are stored or
// compared.
//
// # Usage
//
// Addresses are the login key for accounts, so "A@X.com" and "a@x.com" must
// resolve to the same user. Normalization happens once at the service edge.
package email

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical form of an address.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFC so composed and decomposed forms compare equal.
// 3. Lowercases with Unicode-aware rules.
func Normalize(address string) string {
	address = strings.TrimSpace(address)
	address = norm.NFC.String(address)
	return cases.Lower(language.Und).String(address)
}
