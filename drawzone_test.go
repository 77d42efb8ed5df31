package main

import (
	"testing"
	"time"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	width, height float64
	ratio         float64
	listeners     map[int]func(InputEvent)
	next          int
}

func newFakeSurface(width, height, ratio float64) *fakeSurface {
	return &fakeSurface{width: width, height: height, ratio: ratio, listeners: map[int]func(InputEvent){}}
}

func (s *fakeSurface) Size() (float64, float64) { return s.width, s.height }
func (s *fakeSurface) PixelRatio() float64      { return s.ratio }

func (s *fakeSurface) Subscribe(fn func(InputEvent)) func() {
	id := s.next
	s.next++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *fakeSurface) emit(ev InputEvent) {
	for _, fn := range s.listeners {
		fn(ev)
	}
}

func pointer(kind EventKind, x, y float64) InputEvent {
	return InputEvent{Kind: kind, OffsetX: x, OffsetY: y, ClientX: x, ClientY: y}
}

type recorder struct {
	frames []Frame
}

func (r *recorder) draw(dc *gg.Context, frame Frame) {
	r.frames = append(r.frames, frame)
}

func newTestZone(t *testing.T, surface *fakeSurface, draw DrawFunc, opts ...ZoneOption) (*DrawZone, *manualScheduler) {
	t.Helper()
	scheduler := newManualScheduler()
	zone := NewDrawZone(surface, scheduler, draw, opts...)
	zone.Activate()
	t.Cleanup(zone.Close)
	return zone, scheduler
}

const frame30 = time.Second / 30

func TestDrawZoneLifecycle(t *testing.T) {
	surface := newFakeSurface(200, 100, 1)
	rec := &recorder{}
	scheduler := newManualScheduler()
	zone := NewDrawZone(surface, scheduler, rec.draw)

	assert.Equal(t, ZoneUninitialized, zone.State())
	assert.Zero(t, scheduler.Pending())

	zone.Activate()
	assert.Equal(t, ZoneActive, zone.State())
	assert.Equal(t, Viewport{Width: 200, Height: 100}, zone.Viewport())
	assert.Len(t, surface.listeners, 1)
	assert.Equal(t, 1, scheduler.Pending())

	scheduler.Tick(frame30)
	require.Len(t, rec.frames, 1)

	zone.Close()
	assert.Equal(t, ZoneTornDown, zone.State())
	assert.Empty(t, surface.listeners)
	assert.Zero(t, scheduler.Pending())

	scheduler.Tick(10 * frame30)
	assert.Len(t, rec.frames, 1, "no frames after teardown")

	zone.Activate()
	assert.Equal(t, ZoneTornDown, zone.State(), "a closed zone stays closed")
}

func TestDrawZoneCapsFrameRate(t *testing.T) {
	rec := &recorder{}
	_, scheduler := newTestZone(t, newFakeSurface(100, 100, 1), rec.draw, WithMaxFPS(10))

	for _, ms := range []int{50, 100, 150, 199, 200, 260, 310} {
		scheduler.Tick(time.Duration(ms) * time.Millisecond)
		assert.Equal(t, 1, scheduler.Pending(), "rescheduled at %dms", ms)
	}
	require.Len(t, rec.frames, 3)
	assert.Equal(t, 100*time.Millisecond, rec.frames[0].Timestamp)
	assert.Equal(t, 200*time.Millisecond, rec.frames[1].Timestamp)
	assert.Equal(t, 310*time.Millisecond, rec.frames[2].Timestamp)
}

func TestDrawZoneBatchesClicks(t *testing.T) {
	surface := newFakeSurface(300, 200, 1)
	rec := &recorder{}
	_, scheduler := newTestZone(t, surface, rec.draw)

	surface.emit(pointer(EventClick, 10, 10))
	surface.emit(pointer(EventMove, 40, 50))
	surface.emit(pointer(EventClick, 20, 20))
	scheduler.Tick(frame30)
	scheduler.Tick(2 * frame30)

	require.Len(t, rec.frames, 2)
	first := rec.frames[0]
	require.Len(t, first.Events, 2)
	assert.Equal(t, EventTypeClick, first.Events[0].Type)
	assert.Equal(t, "onclick", first.Events[0].Type.String())
	assert.Equal(t, 10.0, first.Events[0].Event.OffsetX)
	assert.Equal(t, 20.0, first.Events[1].Event.OffsetX)
	require.NotNil(t, first.MoveEvent)
	assert.Equal(t, 40.0, first.MoveEvent.OffsetX)

	second := rec.frames[1]
	assert.Empty(t, second.Events, "queue cleared after each frame")
	require.NotNil(t, second.MoveEvent, "move event persists")
	assert.Equal(t, 50.0, second.MoveEvent.OffsetY)
}

func TestDrawZoneMoveEventOverwritten(t *testing.T) {
	surface := newFakeSurface(300, 200, 1)
	rec := &recorder{}
	_, scheduler := newTestZone(t, surface, rec.draw)

	scheduler.Tick(frame30)
	assert.Nil(t, rec.frames[0].MoveEvent)

	surface.emit(pointer(EventMove, 1, 1))
	surface.emit(pointer(EventMove, 2, 2))
	scheduler.Tick(2 * frame30)
	require.NotNil(t, rec.frames[1].MoveEvent)
	assert.Equal(t, 2.0, rec.frames[1].MoveEvent.OffsetX)
}

func TestDrawZoneDragPansViewport(t *testing.T) {
	surface := newFakeSurface(300, 200, 1)
	zone, _ := newTestZone(t, surface, func(*gg.Context, Frame) {})

	surface.emit(pointer(EventDown, 100, 100))
	surface.emit(pointer(EventMove, 80, 90))
	assert.Equal(t, Viewport{X: 20, Y: 10, Width: 300, Height: 200}, zone.Viewport())

	surface.emit(pointer(EventUp, 80, 90))
	surface.emit(pointer(EventMove, 0, 0))
	assert.Equal(t, 20.0, zone.Viewport().X, "moves after mouse up do not pan")

	// A second drag continues from where the first one left off.
	surface.emit(pointer(EventDown, 50, 50))
	surface.emit(pointer(EventMove, 60, 40))
	assert.Equal(t, 10.0, zone.Viewport().X)
	assert.Equal(t, 20.0, zone.Viewport().Y)

	zone.ResetViewport()
	assert.Equal(t, Viewport{Width: 300, Height: 200}, zone.Viewport())
}

func TestDrawZoneAppliesPan(t *testing.T) {
	surface := newFakeSurface(100, 100, 1)
	var got Frame
	zone, scheduler := newTestZone(t, surface, func(dc *gg.Context, frame Frame) {
		got = frame
		dc.SetHexColor("#ff0000")
		dc.DrawRectangle(20, 10, 5, 5)
		dc.Fill()
	})
	zone.PanBy(20, 10)
	scheduler.Tick(frame30)

	_, _, _, a := zone.Image().At(2, 2).RGBA()
	assert.NotZero(t, a, "content drawn at the pan offset lands at the origin")

	x, y := got.WorldPoint(pointer(EventClick, 2, 2))
	assert.Equal(t, 22.0, x)
	assert.Equal(t, 12.0, y)
}

func TestDrawZonePixelRatio(t *testing.T) {
	surface := newFakeSurface(200, 100, 2)
	zone, scheduler := newTestZone(t, surface, func(dc *gg.Context, frame Frame) {
		dc.SetHexColor("#00ff00")
		dc.DrawRectangle(190, 90, 10, 10)
		dc.Fill()
	})
	scheduler.Tick(frame30)

	assert.Equal(t, 2.0, zone.PixelRatio())
	assert.Equal(t, 400, zone.Image().Bounds().Dx())
	assert.Equal(t, 200, zone.Image().Bounds().Dy())
	_, _, _, a := zone.Image().At(399, 199).RGBA()
	assert.NotZero(t, a, "drawing units are scaled to the backing store")

	surface.ratio = 1
	surface.emit(InputEvent{Kind: EventPixelRatio})
	assert.Equal(t, 200, zone.Image().Bounds().Dx())

	surface.width, surface.height = 320, 240
	surface.emit(InputEvent{Kind: EventResize})
	assert.Equal(t, 320, zone.Image().Bounds().Dx())
	assert.Equal(t, 240.0, zone.Viewport().Height)
}

func TestManualSchedulerCancel(t *testing.T) {
	s := newManualScheduler()
	var ran []int
	a := s.RequestFrame(func(time.Duration) { ran = append(ran, 1) })
	s.RequestFrame(func(time.Duration) { ran = append(ran, 2) })
	s.CancelFrame(a)

	assert.Equal(t, 1, s.Tick(0))
	assert.Equal(t, []int{2}, ran)
	assert.Zero(t, s.Pending())
}
