package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkoosis/btfilter/pkg/color"
)

func TestClosestNames(t *testing.T) {
	names := []string{"colorize", "elide_std", "remove_prefix"}
	assert.Equal(t, []string{"elide_std"}, closestNames("elide_sdt", names))
	assert.Equal(t, []string{"colorize"}, closestNames("colourize", names))
	assert.Empty(t, closestNames("nope", names))
}

func TestColorHint(t *testing.T) {
	err := colorHint(color.ErrUnknownAttribute, "function", "forground")
	assert.ErrorIs(t, err, color.ErrUnknownAttribute)
	assert.ErrorContains(t, err, `did you mean "foreground"`)

	plain := errors.New("boom")
	assert.Equal(t, plain, colorHint(plain, "x", "y"))
}
