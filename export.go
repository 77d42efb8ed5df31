package main

import (
	"fmt"
	"log/slog"
)

// staticSurface is a fixed-size surface with no input, for headless frames.
type staticSurface struct {
	width, height float64
	ratio         float64
}

func (s staticSurface) Size() (float64, float64) {
	return s.width, s.height
}

func (s staticSurface) PixelRatio() float64 {
	return s.ratio
}

func (s staticSurface) Subscribe(func(InputEvent)) func() {
	return func() {}
}

// exportPNG renders a single frame of view through a draw zone and writes
// the backing store to filename.
func exportPNG(view *GraphView, filename string, width, height, ratio float64, logger *slog.Logger) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("export %s: invalid size %gx%g", filename, width, height)
	}
	scheduler := newManualScheduler()
	zone := NewDrawZone(staticSurface{width, height, ratio}, scheduler, view.Draw,
		WithBackground(view.Theme.Background),
		WithLogger(logger),
	)
	zone.Activate()
	defer zone.Close()

	scheduler.Tick(zone.frameTime())
	if err := zone.SavePNG(filename); err != nil {
		return fmt.Errorf("export %s: %w", filename, err)
	}
	return nil
}
