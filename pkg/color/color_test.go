package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemEscape(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
		ok   bool
	}{
		{"foreground only", Item{Foreground: Yellow}, "\x1b[33m", true},
		{"nothing", Item{}, "", false},
		{"bold", Item{Intensity: IntensityBold}, "\x1b[1m", true},
		{"faint cyan", Item{Intensity: IntensityFaint, Foreground: Cyan}, "\x1b[2;36m", true},
		{"black on magenta", Item{Foreground: Black, Background: Magenta}, "\x1b[30;45m", true},
		{"all three", Item{Intensity: IntensityBold, Foreground: White, Background: Red}, "\x1b[1;37;41m", true},
		{"background only", Item{Background: Black}, "\x1b[40m", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.Escape()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemApply(t *testing.T) {
	assert.Equal(t, "\x1b[33mx\x1b[m", Item{Foreground: Yellow}.Apply("x"))
	assert.Equal(t, "x", Item{}.Apply("x"))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("magenta")
	require.NoError(t, err)
	assert.Equal(t, Magenta, c)

	_, err = ParseColor("purple")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseIntensity(t *testing.T) {
	i, err := ParseIntensity("faint")
	require.NoError(t, err)
	assert.Equal(t, IntensityFaint, i)

	_, err = ParseIntensity("loud")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "cyan", Cyan.String())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "Color(42)", Color(42).String())
	assert.Equal(t, "bold", IntensityBold.String())
	assert.Equal(t, "Intensity(-1)", Intensity(-1).String())
}
