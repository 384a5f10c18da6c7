package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistancePointToSegment(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		a, b Point
		want float64
	}{
		{"perpendicular", Pt(5, 3), Pt(0, 0), Pt(10, 0), 3},
		{"beyond end clamps", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"before start clamps", Pt(-3, -4), Pt(0, 0), Pt(10, 0), 5},
		{"on segment", Pt(4, 4), Pt(0, 0), Pt(8, 8), 0},
		{"vertical", Pt(2, 5), Pt(0, 0), Pt(0, 10), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistancePointToSegment(tt.p, tt.a, tt.b), 1e-9)
		})
	}
}

func TestDistancePointToSegment_Degenerate(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(3, 4), Pt(-7.5, 2.25), Pt(100, -100)}
	a := Pt(1, 1)

	for _, p := range points {
		assert.Equal(t, p.Distance(a), DistancePointToSegment(p, a, a))
	}
}

func TestRectContains(t *testing.T) {
	tl := Pt(10, 10)

	assert.True(t, RectContains(&tl, 40, 40, Pt(30, 30)))
	assert.True(t, RectContains(&tl, 40, 40, Pt(10, 50)), "edges are inclusive")
	assert.False(t, RectContains(&tl, 40, 40, Pt(51, 30)))
	assert.False(t, RectContains(&tl, 40, 40, Pt(30, 9)))
	assert.False(t, RectContains(nil, 40, 40, Pt(30, 30)), "unpositioned element never hits")
}

func TestScale(t *testing.T) {
	for _, v := range []float64{0, 1, -3.5, 12.25, 1e6} {
		assert.Equal(t, 2*v, Scale(v, 40))
		assert.Equal(t, v, Scale(v, BaseSize))
	}
	assert.Equal(t, 5.0, Scale(10, 10))
}

func TestScaleThickness(t *testing.T) {
	assert.Equal(t, 6.0, ScaleThickness(2, 3))
	assert.Equal(t, 0.0, ScaleThickness(0, 3))
}

func TestCenterIn(t *testing.T) {
	target := Rect{X: 100, Y: 50, Width: 800, Height: 600}
	tl := CenterIn(target, 200, 200)

	assert.Equal(t, Pt(400, 250), tl)
	assert.Equal(t, target.Center(), tl.Add(Pt(100, 100)))
}

func TestPointOps(t *testing.T) {
	p := Pt(3, 4)
	assert.Equal(t, Pt(4, 6), p.Add(Pt(1, 2)))
	assert.Equal(t, Pt(2, 2), p.Sub(Pt(1, 2)))
	assert.Equal(t, 5.0, p.Distance(Pt(0, 0)))
	assert.False(t, math.IsNaN(p.Distance(p)))
}
