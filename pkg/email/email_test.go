// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taskly/pkg/email"
)

/*
TestNormalize covers case folding, trimming and Unicode composition.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "A@X.com", "a@x.com"},
		{"trim", "  a@x.com\t", "a@x.com"},
		{"decomposed_accent", "Jose\u0301@x.com", "jos\u00e9@x.com"},
		{"already_canonical", "a@x.com", "a@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, email.Normalize(tt.in))
		})
	}
}
