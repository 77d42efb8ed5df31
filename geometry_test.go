package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, distance(0, 0, 3, 4))
	assert.Equal(t, 5.0, distance(3, 4, 0, 0))
	assert.Equal(t, 0.0, distance(7, 7, 7, 7))
}

func TestAngleBetween(t *testing.T) {
	assert.InDelta(t, 0, angleBetween(0, 0, 10, 0), 1e-12)
	assert.InDelta(t, math.Pi/2, angleBetween(0, 0, 0, 10), 1e-12)
	assert.InDelta(t, math.Pi, angleBetween(0, 0, -10, 0), 1e-12)
	assert.InDelta(t, -math.Pi/2, angleBetween(0, 0, 0, -10), 1e-12)
}

func TestConnectPointsOrder(t *testing.T) {
	pts := connectPoints(BoxElement{X: 10, Y: 20, W: 100, H: 40})
	assert.Equal(t, [4]point{
		{60, 20},
		{110, 40},
		{60, 60},
		{10, 40},
	}, pts)
}

func TestShortestConnectorIsMinimal(t *testing.T) {
	boxes := []BoxElement{
		{X: 0, Y: 0, W: 150, H: 70},
		{X: 250, Y: 0, W: 150, H: 70},
		{X: 250, Y: 170, W: 150, H: 70},
		{X: 0, Y: 290, W: 150, H: 70},
		{X: -300, Y: -120, W: 40, H: 200},
		{X: 60, Y: 30, W: 10, H: 10},
	}
	for _, a := range boxes {
		for _, b := range boxes {
			line := shortestConnector(a, b)
			for _, p := range connectPoints(a) {
				for _, q := range connectPoints(b) {
					assert.LessOrEqual(t, line.Length(), distance(p.X, p.Y, q.X, q.Y))
				}
			}
		}
	}
}

func TestShortestConnectorTieKeepsFirst(t *testing.T) {
	box := BoxElement{X: 0, Y: 0, W: 100, H: 50}
	// Every point meets its twin at distance zero; top-top comes first.
	assert.Equal(t, Line{50, 0, 50, 0}, shortestConnector(box, box))
}

func TestShortestConnectorSideBySide(t *testing.T) {
	a := BoxElement{X: 0, Y: 0, W: 150, H: 70}
	b := BoxElement{X: 200, Y: 0, W: 150, H: 70}
	assert.Equal(t, Line{150, 35, 200, 35}, shortestConnector(a, b))
}
