package main

import (
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundedRectContainsPoint(t *testing.T) {
	dc := gg.NewContext(300, 200)
	rect := roundedRect(dc, 50, 50, 150, 70, 4, RectStyle{})

	tests := []struct {
		name   string
		x, y   float64
		inside bool
	}{
		{"centre", 125, 85, true},
		{"near left edge", 51, 85, true},
		{"left of box", 49, 85, false},
		{"below box", 125, 121, false},
		{"cut corner", 50.2, 50.2, false},
		{"just inside corner arc", 52, 52, true},
		{"far away", 1000, 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inside, rect.ContainsPoint(tt.x, tt.y))
		})
	}
}

func TestContainsPointOnOutlineIsStable(t *testing.T) {
	dc := gg.NewContext(300, 200)
	for frame := 0; frame < 3; frame++ {
		rect := roundedRect(dc, 50, 50, 150, 70, 4, RectStyle{})
		assert.True(t, rect.ContainsPoint(125, 50), "top edge")
		assert.True(t, rect.ContainsPoint(200, 85), "right edge")
		assert.True(t, rect.ContainsPoint(125, 120), "bottom edge")
		assert.True(t, rect.ContainsPoint(50, 85), "left edge")
	}
}

func TestArcToRoundsCorner(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.ArcTo(10, 0, 10, 10, 4)

	require.Len(t, p.segs, 3)
	assert.Equal(t, segLine, p.segs[1].kind)
	assert.InDelta(t, 6, p.segs[1].x, 1e-9)
	assert.InDelta(t, 0, p.segs[1].y, 1e-9)

	arc := p.segs[2]
	assert.Equal(t, segArc, arc.kind)
	assert.InDelta(t, 6, arc.cx, 1e-9)
	assert.InDelta(t, 4, arc.cy, 1e-9)
	assert.InDelta(t, 10, arc.x, 1e-9)
	assert.InDelta(t, 4, arc.y, 1e-9)
}

func TestArcToDegenerateIsLine(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.ArcTo(10, 0, 20, 0, 4)
	p.ArcTo(20, 0, 20, 10, 0)
	p.ArcTo(20, 10, 20, 20, -3)

	for _, s := range p.segs[1:] {
		assert.Equal(t, segLine, s.kind)
	}
}

func TestDegenerateRectDoesNotPanic(t *testing.T) {
	dc := gg.NewContext(100, 100)
	assert.NotPanics(t, func() {
		rect := roundedRect(dc, 50, 50, -20, -10, 4, RectStyle{StrokeStyle: "#ffffff", FillStyle: "#000000"})
		rect.ContainsPoint(40, 45)
		zero := roundedRect(dc, 10, 10, 0, 0, 4, RectStyle{StrokeStyle: "#ffffff"})
		assert.False(t, zero.ContainsPoint(20, 20))
	})
}

func TestNilPathContainsNothing(t *testing.T) {
	var p *Path
	assert.False(t, p.ContainsPoint(0, 0))
	assert.False(t, NewPath().ContainsPoint(0, 0))
}
