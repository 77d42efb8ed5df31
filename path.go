package main

import (
	"math"

	"github.com/fogleman/gg"
)

type segKind int

const (
	segMove segKind = iota
	segLine
	segArc
	segClose
)

// arcSteps matches the number of quadratic pieces gg uses per arc so the
// hit-test polygon follows what ends up on screen.
const arcSteps = 16

const onEdgeEpsilon = 1e-9

type pathSeg struct {
	kind   segKind
	x, y   float64
	cx, cy float64
	r      float64
	a1, a2 float64
}

// Path is a recorded vector path. It can be replayed onto a gg context any
// number of times and answers point containment with the nonzero rule.
// Points on the outline are inside.
type Path struct {
	segs   []pathSeg
	cur    point
	start  point
	hasCur bool
}

func NewPath() *Path {
	return &Path{}
}

func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, pathSeg{kind: segMove, x: x, y: y})
	p.cur = point{x, y}
	p.start = p.cur
	p.hasCur = true
}

func (p *Path) LineTo(x, y float64) {
	if !p.hasCur {
		p.MoveTo(x, y)
		return
	}
	p.segs = append(p.segs, pathSeg{kind: segLine, x: x, y: y})
	p.cur = point{x, y}
}

// ArcTo adds a straight line to the first tangent point and a circular arc
// of radius r joining the lines current->(x1,y1) and (x1,y1)->(x2,y2).
// Degenerate input (no turn, coincident points, r <= 0) becomes a line
// to (x1, y1).
func (p *Path) ArcTo(x1, y1, x2, y2, r float64) {
	if !p.hasCur {
		p.MoveTo(x1, y1)
	}
	x0, y0 := p.cur.X, p.cur.Y

	d1 := distance(x0, y0, x1, y1)
	d2 := distance(x1, y1, x2, y2)
	if r <= 0 || d1 == 0 || d2 == 0 {
		p.LineTo(x1, y1)
		return
	}
	u1x, u1y := (x0-x1)/d1, (y0-y1)/d1
	u2x, u2y := (x2-x1)/d2, (y2-y1)/d2
	cross := u1x*u2y - u1y*u2x
	if math.Abs(cross) < onEdgeEpsilon {
		p.LineTo(x1, y1)
		return
	}

	theta := math.Acos(math.Max(-1, math.Min(1, u1x*u2x+u1y*u2y)))
	tangent := r / math.Tan(theta/2)
	t1x, t1y := x1+u1x*tangent, y1+u1y*tangent
	t2x, t2y := x1+u2x*tangent, y1+u2y*tangent

	bx, by := u1x+u2x, u1y+u2y
	bl := math.Hypot(bx, by)
	centre := r / math.Sin(theta/2)
	cx, cy := x1+bx/bl*centre, y1+by/bl*centre

	a1 := math.Atan2(t1y-cy, t1x-cx)
	a2 := math.Atan2(t2y-cy, t2x-cx)
	delta := a2 - a1
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta <= -math.Pi {
		delta += 2 * math.Pi
	}

	p.LineTo(t1x, t1y)
	p.segs = append(p.segs, pathSeg{kind: segArc, x: t2x, y: t2y, cx: cx, cy: cy, r: r, a1: a1, a2: a1 + delta})
	p.cur = point{t2x, t2y}
}

func (p *Path) ClosePath() {
	if !p.hasCur {
		return
	}
	p.segs = append(p.segs, pathSeg{kind: segClose})
	p.cur = p.start
}

// Replay replaces the context's current path with this one.
func (p *Path) Replay(dc *gg.Context) {
	dc.ClearPath()
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			dc.MoveTo(s.x, s.y)
		case segLine:
			dc.LineTo(s.x, s.y)
		case segArc:
			dc.DrawArc(s.cx, s.cy, s.r, s.a1, s.a2)
		case segClose:
			dc.ClosePath()
		}
	}
}

// polygons flattens the path into one closed polygon per subpath.
func (p *Path) polygons() [][]point {
	var polys [][]point
	var cur []point
	flush := func() {
		if len(cur) > 1 {
			polys = append(polys, cur)
		}
		cur = nil
	}
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			flush()
			cur = []point{{s.x, s.y}}
		case segLine:
			cur = append(cur, point{s.x, s.y})
		case segArc:
			for i := 0; i <= arcSteps; i++ {
				a := s.a1 + (s.a2-s.a1)*float64(i)/arcSteps
				cur = append(cur, point{s.cx + s.r*math.Cos(a), s.cy + s.r*math.Sin(a)})
			}
		case segClose:
			if len(cur) > 0 {
				start := cur[0]
				flush()
				cur = []point{start}
			}
		}
	}
	flush()
	return polys
}

func (p *Path) ContainsPoint(x, y float64) bool {
	if p == nil {
		return false
	}
	winding := 0
	for _, poly := range p.polygons() {
		n := len(poly)
		for i := 0; i < n; i++ {
			a, b := poly[i], poly[(i+1)%n]
			if onSegment(a, b, x, y) {
				return true
			}
			if a.Y <= y {
				if b.Y > y && side(a, b, x, y) > 0 {
					winding++
				}
			} else if b.Y <= y && side(a, b, x, y) < 0 {
				winding--
			}
		}
	}
	return winding != 0
}

func side(a, b point, x, y float64) float64 {
	return (b.X-a.X)*(y-a.Y) - (x-a.X)*(b.Y-a.Y)
}

func onSegment(a, b point, x, y float64) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return distance(a.X, a.Y, x, y) <= onEdgeEpsilon
	}
	t := ((x-a.X)*dx + (y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return distance(a.X+t*dx, a.Y+t*dy, x, y) <= onEdgeEpsilon
}
