// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/pointer"
)

func TestOr(t *testing.T) {
	assert.Equal(t, 7, pointer.Or(nil, 7))
	assert.Equal(t, 9, pointer.Or(pointer.To(9), 7))
	assert.Equal(t, "", pointer.Or(pointer.To(""), "kept"))
}
