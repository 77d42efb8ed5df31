package main

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/fogleman/gg"
)

var errNotActive = errors.New("draw zone has no backing store")

// DrawFunc draws one frame. The context has just been cleared and already
// carries the pixel-ratio scale and pan offset. It must not be kept after
// the call returns.
type DrawFunc func(dc *gg.Context, frame Frame)

type ZoneOption func(*DrawZone)

func WithMaxFPS(fps int) ZoneOption {
	return func(z *DrawZone) {
		if fps > 0 {
			z.maxFPS = fps
		}
	}
}

func WithBackground(hex string) ZoneOption {
	return func(z *DrawZone) {
		z.background = hex
	}
}

func WithLogger(logger *slog.Logger) ZoneOption {
	return func(z *DrawZone) {
		if logger != nil {
			z.logger = logger
		}
	}
}

// DrawZone is a frame-rate capped render loop bound to one input surface.
// Pointer events are batched between frames and handed to the draw
// callback. Mouse drags pan the viewport.
type DrawZone struct {
	surface    InputSurface
	scheduler  FrameScheduler
	draw       DrawFunc
	maxFPS     int
	background string
	logger     *slog.Logger

	state         ZoneState
	dc            *gg.Context
	pixelRatio    float64
	viewport      *Viewport
	viewportStart Viewport
	dragStart     *point
	moveEvent     *InputEvent
	events        []Event
	lastTimestamp time.Duration
	frameID       FrameHandle
	unsubscribe   func()
	frames        int
}

func NewDrawZone(surface InputSurface, scheduler FrameScheduler, draw DrawFunc, opts ...ZoneOption) *DrawZone {
	z := &DrawZone{
		surface:    surface,
		scheduler:  scheduler,
		draw:       draw,
		maxFPS:     defaultMaxFPS,
		background: colorBackground,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Activate sizes the backing context, starts listening for input and
// schedules the first frame. It only has an effect on a new zone.
func (z *DrawZone) Activate() {
	if z.state != ZoneUninitialized {
		return
	}
	width, height := z.surface.Size()
	z.viewport = &Viewport{Width: width, Height: height}
	z.scale()

	z.unsubscribe = z.surface.Subscribe(z.handleEvent)
	z.state = ZoneActive
	z.frameID = z.scheduler.RequestFrame(z.render)

	z.logger.Info("draw zone active", "width", width, "height", height, "pixelRatio", z.pixelRatio, "maxFPS", z.maxFPS)
}

// Close releases the input subscription and the pending frame. No draw
// callback runs afterwards.
func (z *DrawZone) Close() {
	if z.state != ZoneActive {
		z.state = ZoneTornDown
		return
	}
	if z.unsubscribe != nil {
		z.unsubscribe()
		z.unsubscribe = nil
	}
	z.scheduler.CancelFrame(z.frameID)
	z.state = ZoneTornDown
	z.logger.Info("draw zone torn down", "frames", z.frames)
}

func (z *DrawZone) State() ZoneState {
	return z.state
}

// Viewport returns a copy of the current viewport.
func (z *DrawZone) Viewport() Viewport {
	if z.viewport == nil {
		return Viewport{}
	}
	return *z.viewport
}

func (z *DrawZone) PixelRatio() float64 {
	return z.pixelRatio
}

// PanBy moves the viewport by a fixed amount, for keyboard panning.
func (z *DrawZone) PanBy(dx, dy float64) {
	if z.viewport == nil {
		return
	}
	z.viewport.X += dx
	z.viewport.Y += dy
}

func (z *DrawZone) ResetViewport() {
	if z.viewport == nil {
		return
	}
	z.viewport.X, z.viewport.Y = 0, 0
	z.dragStart = nil
}

// Image is the backing store as of the last executed frame.
func (z *DrawZone) Image() image.Image {
	if z.dc == nil {
		return nil
	}
	return z.dc.Image()
}

func (z *DrawZone) SavePNG(path string) error {
	if z.dc == nil {
		return errNotActive
	}
	return z.dc.SavePNG(path)
}

func (z *DrawZone) frameTime() time.Duration {
	return time.Second / time.Duration(z.maxFPS)
}

// scale recreates the backing context at the surface's pixel density so
// callers keep drawing in logical units.
func (z *DrawZone) scale() {
	ratio := z.surface.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	width, height := z.surface.Size()
	w := int(math.Floor(math.Max(width, 0) * ratio))
	h := int(math.Floor(math.Max(height, 0) * ratio))

	z.dc = gg.NewContext(w, h)
	z.dc.Scale(ratio, ratio)
	z.pixelRatio = ratio
	if z.viewport != nil {
		z.viewport.Width, z.viewport.Height = width, height
	}
	z.logger.Info("draw zone scaled", "backingWidth", w, "backingHeight", h, "pixelRatio", ratio)
}

func (z *DrawZone) handleEvent(ev InputEvent) {
	if z.state != ZoneActive {
		return
	}
	switch ev.Kind {
	case EventClick:
		z.events = append(z.events, Event{Type: EventTypeClick, Event: ev})
	case EventMove:
		move := ev
		z.moveEvent = &move
		if z.dragStart != nil && z.viewport != nil {
			z.viewport.X = z.viewportStart.X + (z.dragStart.X - ev.ClientX)
			z.viewport.Y = z.viewportStart.Y + (z.dragStart.Y - ev.ClientY)
		}
	case EventDown:
		z.dragStart = &point{ev.ClientX, ev.ClientY}
		if z.viewport != nil {
			z.viewportStart = *z.viewport
		}
	case EventUp:
		z.dragStart = nil
	case EventResize, EventPixelRatio:
		z.scale()
	}
}

func (z *DrawZone) render(timestamp time.Duration) {
	if z.state != ZoneActive {
		return
	}
	z.frameID = z.scheduler.RequestFrame(z.render)

	if timestamp-z.lastTimestamp < z.frameTime() {
		return
	}
	started := time.Now()
	z.lastTimestamp = timestamp

	z.dc.SetHexColor(z.background)
	z.dc.Clear()

	frame := Frame{
		Events:    z.events,
		Viewport:  z.viewport,
		Timestamp: timestamp,
	}
	if z.moveEvent != nil {
		move := *z.moveEvent
		frame.MoveEvent = &move
	}

	z.dc.Push()
	if z.viewport != nil {
		z.dc.Translate(-z.viewport.X, -z.viewport.Y)
	}
	z.draw(z.dc, frame)
	z.dc.Pop()

	z.events = nil
	z.frames++
	if z.frames%100 == 0 {
		z.logger.Info("frame", "n", z.frames, "drawTime", time.Since(started), "timestamp", timestamp)
	}
}

// manualScheduler runs requested callbacks only when told to. The terminal
// host ticks it from bubbletea and the PNG export ticks it by hand.
type manualScheduler struct {
	next    FrameHandle
	pending map[FrameHandle]func(time.Duration)
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{pending: map[FrameHandle]func(time.Duration){}}
}

func (s *manualScheduler) RequestFrame(fn func(time.Duration)) FrameHandle {
	s.next++
	s.pending[s.next] = fn
	return s.next
}

func (s *manualScheduler) CancelFrame(h FrameHandle) {
	delete(s.pending, h)
}

func (s *manualScheduler) Pending() int {
	return len(s.pending)
}

// Tick runs every callback that was pending before the call, in request
// order. Callbacks requested during the tick wait for the next one.
func (s *manualScheduler) Tick(timestamp time.Duration) int {
	due := s.pending
	s.pending = map[FrameHandle]func(time.Duration){}
	for _, h := range slices.Sorted(maps.Keys(due)) {
		due[h](timestamp)
	}
	return len(due)
}
