// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/husbandometrics/pkg/pointer"
)

func TestTo(t *testing.T) {
	value := 46.5
	p := pointer.To(value)
	value = 0

	assert.Equal(t, 46.5, *p)
}

func TestVal(t *testing.T) {
	assert.Equal(t, 3.5, pointer.Val(pointer.To(3.5)))
	assert.Zero(t, pointer.Val[float64](nil))
	assert.Equal(t, "", pointer.Val[string](nil))
}
