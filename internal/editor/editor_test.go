package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotsight/internal/crosshair"
	"dotsight/internal/geometry"
)

// 400x400 画布：视图 (200,200) 即模型原点
func view(x, y float64) geometry.Point { return geometry.Pt(200+x, 200+y) }

func TestNewHasGuidesOnly(t *testing.T) {
	e := New()
	assert.Equal(t, 0, e.Len())

	views := e.Elements()
	require.Len(t, views, 2)
	for _, v := range views {
		assert.True(t, v.Guide)
	}

	_, ok := e.HitTest(view(0, -100))
	assert.False(t, ok, "guides are never hit")
}

func TestAddShapeDefaults(t *testing.T) {
	e := New(WithDefaultColor(crosshair.Cyan))

	id := e.AddShape(crosshair.ShapeLine)
	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, id, sel)

	el, ok := e.Element(id)
	require.True(t, ok)
	assert.Equal(t, crosshair.Element{Kind: crosshair.ShapeLine, X1: -20, X2: 20, Thickness: 2, Color: crosshair.Cyan}, el)

	id = e.AddShape(crosshair.ShapeCircle)
	el, _ = e.Element(id)
	assert.Equal(t, crosshair.Element{Kind: crosshair.ShapeCircle, X1: -20, Y1: -20, Width: 40, Height: 40, Thickness: 2, Color: crosshair.Cyan}, el)
}

func TestIDsAreNotReused(t *testing.T) {
	e := New()
	a := e.AddShape(crosshair.ShapeLine)
	e.DeleteSelected()
	b := e.AddShape(crosshair.ShapeLine)
	assert.Greater(t, b, a)

	_, ok := e.Element(a)
	assert.False(t, ok)
}

func TestHitTest(t *testing.T) {
	e := New()
	line := e.AddShape(crosshair.ShapeLine)

	tests := []struct {
		name string
		p    geometry.Point
		hit  bool
	}{
		{"on segment", view(0, 0), true},
		{"within tolerance", view(10, 5), true},
		{"beyond tolerance", view(10, 6), false},
		{"past endpoint", view(26, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := e.HitTest(tt.p)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.Equal(t, line, id)
			}
		})
	}
}

func TestHitTestTopmost(t *testing.T) {
	e := New()
	e.AddShape(crosshair.ShapeRectangle)
	circle := e.AddShape(crosshair.ShapeCircle)

	id, ok := e.HitTest(view(0, 0))
	require.True(t, ok)
	assert.Equal(t, circle, id)

	// 边界包含在内
	_, ok = e.HitTest(view(20, 20))
	assert.True(t, ok)
	_, ok = e.HitTest(view(21, 0))
	assert.False(t, ok)
}

func TestSelectAtMissClearsSelection(t *testing.T) {
	e := New()
	e.AddShape(crosshair.ShapeRectangle)

	_, ok := e.SelectAt(view(100, 100))
	assert.False(t, ok)
	_, ok = e.Selected()
	assert.False(t, ok)
}

func TestDragLine(t *testing.T) {
	e := New()
	id := e.AddShape(crosshair.ShapeLine)

	require.True(t, e.PointerDown(view(0, 0)))
	e.PointerMove(view(4, 2))
	e.PointerMove(view(10, 5))
	e.PointerUp(view(10, 5))

	el, _ := e.Element(id)
	assert.Equal(t, -10.0, el.X1)
	assert.Equal(t, 5.0, el.Y1)
	assert.Equal(t, 30.0, el.X2)
	assert.Equal(t, 5.0, el.Y2)
	assert.False(t, e.Dragging())

	// 抬起后移动不再生效
	e.PointerMove(view(50, 50))
	after, _ := e.Element(id)
	assert.Equal(t, el, after)
}

func TestDragRectangleMovesAnchorOnly(t *testing.T) {
	e := New()
	id := e.AddShape(crosshair.ShapeRectangle)

	require.NoError(t, e.BeginDrag(view(-10, -10)))
	e.UpdateDrag(view(-5, 0))
	e.EndDrag()

	el, _ := e.Element(id)
	assert.Equal(t, -15.0, el.X1)
	assert.Equal(t, -10.0, el.Y1)
	assert.Equal(t, 40.0, el.Width)
	assert.Equal(t, 40.0, el.Height)
}

func TestBeginDragRequiresSelection(t *testing.T) {
	e := New()
	assert.ErrorIs(t, e.BeginDrag(view(0, 0)), ErrNoSelection)
	assert.False(t, e.Dragging())
}

func TestBeginDragWhileDraggingRestarts(t *testing.T) {
	e := New()
	id := e.AddShape(crosshair.ShapeRectangle)

	require.NoError(t, e.BeginDrag(view(0, 0)))
	require.NoError(t, e.BeginDrag(view(30, 30)))
	e.UpdateDrag(view(31, 30))

	el, _ := e.Element(id)
	assert.Equal(t, -19.0, el.X1)
	assert.Equal(t, -20.0, el.Y1)
}

func TestSetPositionPreservesLineVector(t *testing.T) {
	e := New()
	id := e.AddShape(crosshair.ShapeLine)

	require.NoError(t, e.SetPosition(5, 5))
	el, _ := e.Element(id)
	assert.Equal(t, 45.0, el.X2)
	assert.Equal(t, 5.0, el.Y2)
}

func TestSettersByKind(t *testing.T) {
	e := New()

	assert.ErrorIs(t, e.SetThickness(3), ErrNoSelection)

	e.AddShape(crosshair.ShapeLine)
	assert.ErrorIs(t, e.SetSize(10, 10), ErrNotAShape)
	require.NoError(t, e.SetFilled(true))
	props, _ := e.Properties()
	assert.False(t, props.Filled, "lines are never filled")
	assert.True(t, props.ShowEnd)
	assert.False(t, props.ShowSize)

	e.AddShape(crosshair.ShapeRectangle)
	assert.ErrorIs(t, e.SetEndPosition(1, 1), ErrNotALine)
	require.NoError(t, e.SetSize(10, 12))
	require.NoError(t, e.SetFilled(true))
	require.NoError(t, e.SetColor(crosshair.Yellow))

	var verr *crosshair.ValidationError
	assert.True(t, errors.As(e.SetThickness(-1), &verr))
	assert.True(t, errors.As(e.SetColor("Orange"), &verr))

	props, _ = e.Properties()
	assert.Equal(t, 10.0, props.Width)
	assert.Equal(t, 12.0, props.Height)
	assert.Equal(t, 2.0, props.Thickness)
	assert.Equal(t, crosshair.Yellow, props.Color)
	assert.True(t, props.Filled)
	assert.Equal(t, []Field{FieldX, FieldY, FieldWidth, FieldHeight, FieldThickness}, props.Fields())
}

func TestApplyText(t *testing.T) {
	e := New()
	id := e.AddShape(crosshair.ShapeLine)

	require.NoError(t, e.ApplyText(FieldX2, " 35 "))
	require.NoError(t, e.ApplyText(FieldY, "-4"))

	before, _ := e.Element(id)
	err := e.ApplyText(FieldX, "abc")
	var verr *crosshair.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "x", verr.Field)

	after, _ := e.Element(id)
	assert.Equal(t, before, after)
	assert.Equal(t, -4.0, after.Y1)
	assert.Equal(t, -4.0, after.Y2, "moving the start drags the end along")
	assert.Equal(t, 35.0, after.X2)
}

func TestClearAllKeepsGuides(t *testing.T) {
	e := New()
	e.AddShape(crosshair.ShapeLine)
	e.AddShape(crosshair.ShapeCircle)

	e.ClearAll()
	assert.Equal(t, 0, e.Len())
	assert.Len(t, e.Elements(), 2)
	_, ok := e.Selected()
	assert.False(t, ok)

	// 没有选中时删除无效果
	e.DeleteSelected()
	assert.Len(t, e.Elements(), 2)
}

func TestFullSpanLineIsAnOrdinaryElement(t *testing.T) {
	e := New()
	in := crosshair.Profile{Name: "P1", Elements: []crosshair.Element{
		{Kind: crosshair.ShapeLine, X1: -200, Y1: 50, X2: 200, Y2: 50, Thickness: 2, Color: crosshair.Green},
		{Kind: crosshair.ShapeLine, X1: 0, Y1: -200, X2: 0, Y2: 200, Thickness: 1, Color: crosshair.White},
	}}
	require.NoError(t, e.ImportProfile(in))
	assert.Equal(t, 2, e.Len())

	id, ok := e.HitTest(view(100, 50))
	require.True(t, ok)
	el, _ := e.Element(id)
	assert.Equal(t, 50.0, el.Y1)

	out, err := e.ExportProfile("P1")
	require.NoError(t, err)
	assert.Equal(t, in, out)

	e.ClearAll()
	assert.Equal(t, 0, e.Len())
	assert.Len(t, e.Elements(), 2, "only the built-in guides survive")
}

func TestExportImportRoundTrip(t *testing.T) {
	src := New()
	src.AddShape(crosshair.ShapeLine)
	require.NoError(t, src.SetPosition(-30, 2))
	src.AddShape(crosshair.ShapeCircle)
	require.NoError(t, src.SetFilled(true))
	src.AddShape(crosshair.ShapeRectangle)
	require.NoError(t, src.SetColor(crosshair.Magenta))

	p, err := src.ExportProfile("P1")
	require.NoError(t, err)
	require.Len(t, p.Elements, 3)
	assert.Equal(t, crosshair.ShapeLine, p.Elements[0].Kind)
	assert.Equal(t, crosshair.ShapeRectangle, p.Elements[2].Kind)

	dst := New()
	dst.AddShape(crosshair.ShapeLine)
	require.NoError(t, dst.ImportProfile(p))

	again, err := dst.ExportProfile("P1")
	require.NoError(t, err)
	assert.Equal(t, p, again)

	// 导入的元素可以命中和拖拽
	require.True(t, dst.PointerDown(view(0, 0)))
	dst.PointerMove(view(1, 1))
	dst.PointerUp(view(1, 1))
	moved, err := dst.ExportProfile("P1")
	require.NoError(t, err)
	assert.Equal(t, -19.0, moved.Elements[2].X1)
}

func TestExportRequiresName(t *testing.T) {
	e := New()
	_, err := e.ExportProfile("  ")
	var verr *crosshair.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestImportRejectsBadElement(t *testing.T) {
	e := New()
	keep := e.AddShape(crosshair.ShapeLine)

	bad := crosshair.Profile{Name: "x", Elements: []crosshair.Element{{Kind: crosshair.ShapeLine, Color: "Orange"}}}
	assert.Error(t, e.ImportProfile(bad))

	_, ok := e.Element(keep)
	assert.True(t, ok, "a rejected import leaves the editor untouched")
}
