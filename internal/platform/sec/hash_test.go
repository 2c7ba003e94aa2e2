// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/taskly/internal/platform/sec"
)

/*
TestPasswordHasher_RoundTrip verifies that a digest verifies its own input
and nothing else.
*/
func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("Abcdef1!")
	require.NoError(t, err)

	assert.NotEqual(t, "Abcdef1!", digest)
	assert.True(t, hasher.Verify("Abcdef1!", digest))
	assert.False(t, hasher.Verify("Abcdef1?", digest))
}

/*
TestPasswordHasher_Salted verifies that hashing the same input twice yields
different digests.
*/
func TestPasswordHasher_Salted(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Abcdef1!")
	require.NoError(t, err)
	second, err := hasher.Hash("Abcdef1!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestPasswordHasher_MalformedDigest verifies that garbage digests are a mismatch.
*/
func TestPasswordHasher_MalformedDigest(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost)

	assert.False(t, hasher.Verify("Abcdef1!", ""))
	assert.False(t, hasher.Verify("Abcdef1!", "not-a-bcrypt-hash"))
}

/*
TestPasswordHasher_CostFallback verifies out-of-range costs use the default.
*/
func TestPasswordHasher_CostFallback(t *testing.T) {
	assert.Equal(t, sec.DefaultHashCost, sec.NewPasswordHasher(0).Cost())
	assert.Equal(t, sec.DefaultHashCost, sec.NewPasswordHasher(99).Cost())
	assert.Equal(t, 10, sec.NewPasswordHasher(10).Cost())
}
