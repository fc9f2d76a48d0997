// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/movies/pkg/uuid"
)

func TestNew_IsValid(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.IsValid(first))
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second, "v7 identifiers are time ordered")
}

func TestIsValid_Slug(t *testing.T) {
	assert.False(t, uuid.IsValid("the-matrix-1999"))
	assert.False(t, uuid.IsValid(""))
}
