// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taskly/pkg/pointer"
)

/*
TestTo returns an independent copy of the value.
*/
func TestTo(t *testing.T) {
	title := "walk the dog"
	p := pointer.To(title)
	title = "changed"

	assert.Equal(t, "walk the dog", *p)
}

/*
TestVal treats a missing optional field as its zero value.
*/
func TestVal(t *testing.T) {
	var missing *bool
	assert.False(t, pointer.Val(missing))
	assert.True(t, pointer.Val(pointer.To(true)))
	assert.Equal(t, "", pointer.Val[string](nil))
}
