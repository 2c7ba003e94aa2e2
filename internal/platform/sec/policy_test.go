// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taskly/internal/platform/sec"
)

/*
TestIdentity_Owns verifies the owner-equality rule.
*/
func TestIdentity_Owns(t *testing.T) {
	alice := sec.Identity{ID: "alice", Email: "a@x.com"}

	assert.True(t, alice.Owns("alice"))
	assert.False(t, alice.Owns("bob"))
	assert.False(t, alice.Owns(""))
	assert.False(t, sec.Identity{}.Owns(""))
}
