package main

import "math"

func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// angleBetween returns the direction from (x1, y1) to (x2, y2) in radians.
func angleBetween(x1, y1, x2, y2 float64) float64 {
	return math.Atan2(y2-y1, x2-x1)
}

// connectPoints returns the edge midpoints of a box: top, right, bottom, left.
func connectPoints(b BoxElement) [4]point {
	return [4]point{
		{b.X + b.W/2, b.Y},
		{b.X + b.W, b.Y + b.H/2},
		{b.X + b.W/2, b.Y + b.H},
		{b.X, b.Y + b.H/2},
	}
}

// shortestConnector picks the shortest of the 16 lines between the
// connect points of a and b. Ties keep the first candidate found.
func shortestConnector(a, b BoxElement) Line {
	var best Line
	bestLen := math.Inf(1)
	for _, p := range connectPoints(a) {
		for _, q := range connectPoints(b) {
			l := Line{p.X, p.Y, q.X, q.Y}
			if d := l.Length(); d < bestLen {
				best, bestLen = l, d
			}
		}
	}
	return best
}
