package target

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dotsight/internal/geometry"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in   string
		want Selector
	}{
		{"Center on screen", Selector{CenterOnScreen: true}},
		{"", Selector{CenterOnScreen: true}},
		{"  Counter-Strike 2 ", Selector{Title: "Counter-Strike 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseSelector(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "Center on screen", ParseSelector("").String())
}

func TestScreenProvider(t *testing.T) {
	p := ScreenProvider{Screen: geometry.Rect{Width: 2560, Height: 1440}}

	r, ok := p.QueryTargetRect(Selector{CenterOnScreen: true})
	assert.True(t, ok)
	assert.Equal(t, 2560.0, r.Width)

	_, ok = p.QueryTargetRect(Selector{Title: "game"})
	assert.False(t, ok)

	_, ok = ScreenProvider{}.QueryTargetRect(Selector{CenterOnScreen: true})
	assert.False(t, ok, "an empty screen hides the overlay")
}

func TestMatchTitle(t *testing.T) {
	assert.True(t, matchTitle("Apex Legends", "legends"))
	assert.False(t, matchTitle("Apex Legends", "valorant"))
	assert.False(t, matchTitle("anything", ""))
}

func TestProviderFunc(t *testing.T) {
	var p Provider = ProviderFunc(func(Selector) (geometry.Rect, bool) {
		return geometry.Rect{Width: 10, Height: 10}, true
	})
	r, ok := p.QueryTargetRect(Selector{})
	assert.True(t, ok)
	assert.Equal(t, 10.0, r.Height)
}
