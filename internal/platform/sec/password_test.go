// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/platform/sec"
)

/*
TestCheckPasswordStrength walks each rule in evaluation order.
*/
func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		rule     string
	}{
		{"valid", "Abcdef1!", ""},
		{"valid_with_braces", "Passw0rd{}", ""},
		{"too_short", "Ab1!", sec.RuleMinLength},
		{"too_long", "Aa1!" + strings.Repeat("x", 69), sec.RuleMaxLength},
		{"no_upper", "abcdef1!", sec.RuleUppercase},
		{"no_lower", "ABCDEF1!", sec.RuleLowercase},
		{"no_digit", "Abcdefg!", sec.RuleDigit},
		{"no_symbol", "Abcdefg1", sec.RuleSymbol},
		{"symbol_outside_set", "Abcdef1~", sec.RuleSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.CheckPasswordStrength(tt.password)

			if tt.rule == "" {
				assert.NoError(t, err)
				return
			}

			var weak *sec.WeakPasswordError
			require.True(t, errors.As(err, &weak))
			assert.Equal(t, tt.rule, weak.Rule)
			assert.NotEmpty(t, weak.Error())
		})
	}
}

/*
TestCheckPasswordStrength_MaxBytesBoundary verifies that exactly 72 bytes passes.
*/
func TestCheckPasswordStrength_MaxBytesBoundary(t *testing.T) {
	password := "Aa1!" + strings.Repeat("x", 68)
	require.Len(t, password, sec.PasswordMaxBytes)

	assert.NoError(t, sec.CheckPasswordStrength(password))
}
