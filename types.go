package main

import "time"

type point struct {
	X, Y float64
}

// BoxElement is a drawn rectangle in drawing coordinates plus the region
// used to hit-test it. It is rebuilt every frame.
type BoxElement struct {
	X, Y, W, H float64
	Path       Region
}

type Line struct {
	X1, Y1, X2, Y2 float64
}

func (l Line) Length() float64 {
	return distance(l.X1, l.Y1, l.X2, l.Y2)
}

// Region answers point containment for a shape drawn earlier in the frame.
type Region interface {
	ContainsPoint(x, y float64) bool
}

type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// InputEvent is a single notification from the input surface. Offset
// coordinates are relative to the surface, client coordinates to the host.
type InputEvent struct {
	Kind             EventKind
	OffsetX, OffsetY float64
	ClientX, ClientY float64
}

// Event is a discrete pointer event queued between frames.
type Event struct {
	Type  EventType
	Event InputEvent
}

// Frame is what the draw callback receives on every executed frame.
// MoveEvent is nil until the pointer has moved over the surface once.
type Frame struct {
	MoveEvent *InputEvent
	Events    []Event
	Viewport  *Viewport
	Timestamp time.Duration
}

// WorldPoint maps an event's offset coordinates into drawing coordinates,
// accounting for the current pan offset.
func (f Frame) WorldPoint(ev InputEvent) (float64, float64) {
	if f.Viewport == nil {
		return ev.OffsetX, ev.OffsetY
	}
	return ev.OffsetX + f.Viewport.X, ev.OffsetY + f.Viewport.Y
}

// FirstEvent returns the first queued event of type t.
func (f Frame) FirstEvent(t EventType) (Event, bool) {
	for _, ev := range f.Events {
		if ev.Type == t {
			return ev, true
		}
	}
	return Event{}, false
}

type FrameHandle int

// InputSurface is the element the zone draws into and listens on.
type InputSurface interface {
	Size() (width, height float64)
	PixelRatio() float64
	Subscribe(fn func(InputEvent)) (unsubscribe func())
}

// FrameScheduler runs a callback on the host's next frame. A cancelled
// handle never fires.
type FrameScheduler interface {
	RequestFrame(fn func(timestamp time.Duration)) FrameHandle
	CancelFrame(h FrameHandle)
}
