package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

const (
	hostRefreshRate = 60
	statusLines     = 2
	halfBlock       = "▀"
)

type frameMsg time.Time

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0e0e0")).Background(lipgloss.Color("#263238"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAddressLine)).Background(lipgloss.Color("#263238")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef5350")).Background(lipgloss.Color("#263238"))
)

// terminalHost runs a draw zone inside bubbletea. It is the zone's input
// surface and frame scheduler: mouse messages become input events and a
// tea.Tick loop stands in for the display's frame callback.
type terminalHost struct {
	config *Config
	logger *slog.Logger
	source TransferSource

	cols, rows int
	ratio      float64
	listeners  map[int]func(InputEvent)
	nextID     int

	scheduler *manualScheduler
	started   time.Time
	ticking   bool

	zone    *DrawZone
	view    *GraphView
	summary Summary

	pressed    bool
	lastFrames int
	canvas     string

	successMessage string
	errorMessage   string
}

func newTerminalHost(config *Config, view *GraphView, source TransferSource, logger *slog.Logger) *terminalHost {
	h := &terminalHost{
		config:    config,
		logger:    logger,
		source:    source,
		ratio:     config.PixelRatio,
		listeners: map[int]func(InputEvent){},
		scheduler: newManualScheduler(),
		started:   time.Now(),
		view:      view,
	}
	h.zone = NewDrawZone(h, h.scheduler, view.Draw,
		WithMaxFPS(config.MaxFPS),
		WithBackground(config.Theme.Background),
		WithLogger(logger),
	)
	view.OnSelect = func(counterparty string, transfers []Transfer) {
		h.successMessage = fmt.Sprintf("selected %s: %d transfers", counterparty, len(transfers))
		h.logger.Info("selection", "counterparty", counterparty, "transfers", len(transfers))
	}
	h.summary = Summarize(view.Groups())
	return h
}

func (h *terminalHost) canvasRows() int {
	return max(h.rows-statusLines, 0)
}

func (h *terminalHost) Size() (float64, float64) {
	return float64(h.cols) * h.config.CellWidth, float64(h.canvasRows()) * h.config.CellHeight
}

func (h *terminalHost) PixelRatio() float64 {
	return h.ratio
}

func (h *terminalHost) Subscribe(fn func(InputEvent)) func() {
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		delete(h.listeners, id)
	}
}

func (h *terminalHost) dispatch(ev InputEvent) {
	for _, fn := range h.listeners {
		fn(ev)
	}
}

func (h *terminalHost) tick() tea.Cmd {
	if h.ticking || h.scheduler.Pending() == 0 {
		return nil
	}
	h.ticking = true
	return tea.Tick(time.Second/hostRefreshRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// cellToLogical maps the centre of a terminal cell to drawing units.
func (h *terminalHost) cellToLogical(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * h.config.CellWidth, (float64(y) + 0.5) * h.config.CellHeight
}

func (h *terminalHost) Init() tea.Cmd {
	return nil
}

func (h *terminalHost) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.cols, h.rows = msg.Width, msg.Height
		if h.zone.State() == ZoneUninitialized {
			h.zone.Activate()
		} else {
			h.dispatch(InputEvent{Kind: EventResize})
		}
		return h, h.tick()

	case frameMsg:
		h.ticking = false
		h.scheduler.Tick(time.Time(msg).Sub(h.started))
		if h.zone.frames != h.lastFrames {
			h.lastFrames = h.zone.frames
			h.canvas = rasterize(h.zone.Image(), h.cols, h.canvasRows())
		}
		return h, h.tick()

	case tea.MouseMsg:
		h.handleMouse(msg)
		return h, nil

	case tea.KeyMsg:
		return h.handleKey(msg)
	}
	return h, nil
}

// handleMouse maps mouse reports onto zone events. Motion with the left
// button held arrives as a motion action, so drags become move events.
func (h *terminalHost) handleMouse(msg tea.MouseMsg) {
	inside := msg.Y < h.canvasRows()
	x, y := h.cellToLogical(msg.X, msg.Y)
	ev := InputEvent{OffsetX: x, OffsetY: y, ClientX: x, ClientY: y}

	switch msg.Action {
	case tea.MouseActionPress:
		if !inside || msg.Button != tea.MouseButtonLeft {
			return
		}
		h.pressed = true
		ev.Kind = EventDown
		h.dispatch(ev)
	case tea.MouseActionMotion:
		if !inside {
			return
		}
		ev.Kind = EventMove
		h.dispatch(ev)
	case tea.MouseActionRelease:
		// A drag released over the status bar still ends.
		ev.Kind = EventUp
		h.dispatch(ev)
		if h.pressed && inside {
			ev.Kind = EventClick
			h.dispatch(ev)
		}
		h.pressed = false
	}
}

func (h *terminalHost) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h.errorMessage = ""
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		h.zone.Close()
		return h, tea.Quit
	case "esc":
		h.view.ClearSelection()
		h.successMessage = ""
	case "0":
		h.zone.ResetViewport()
	case "+", "=":
		h.ratio = min(h.ratio+0.5, 4)
		h.dispatch(InputEvent{Kind: EventPixelRatio})
	case "-":
		h.ratio = max(h.ratio-0.5, 0.5)
		h.dispatch(InputEvent{Kind: EventPixelRatio})
	case "y":
		h.copySelection()
	case "p":
		h.pasteRoot()
	case "r":
		h.reload()
	case "s":
		h.exportFrame()
	default:
		h.handlePan(key, getMoveSpeed(key))
	}
	return h, nil
}

func (h *terminalHost) reload() {
	if h.source == nil {
		h.errorMessage = "no transfer file to reload"
		return
	}
	transfers, err := h.source.Transfers()
	if err != nil {
		h.errorMessage = err.Error()
		h.logger.Error("reload transfers", "err", err)
		return
	}
	h.view.SetTransfers(GroupByCounterparty(transfers))
	h.summary = Summarize(h.view.Groups())
	h.successMessage = fmt.Sprintf("loaded %d transfers", len(transfers))
}

func (h *terminalHost) exportFrame() {
	filename, err := h.config.GetSavePath(fmt.Sprintf("txgraph-%s.png", time.Now().Format("20060102-150405")))
	if err != nil {
		h.errorMessage = err.Error()
		h.logger.Error("export frame", "err", err)
		return
	}
	if err := h.zone.SavePNG(filename); err != nil {
		h.errorMessage = err.Error()
		return
	}
	h.successMessage = "saved " + filename
}

func (h *terminalHost) View() string {
	if h.cols == 0 || h.rows == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(h.canvas)
	if h.canvas != "" {
		b.WriteByte('\n')
	}
	b.WriteString(h.statusLine())
	b.WriteByte('\n')
	b.WriteString(h.summaryLine())
	return b.String()
}

func (h *terminalHost) statusLine() string {
	parts := []string{accentStyle.Render(shortenAddress(h.view.Root))}
	if hovered := h.view.Hovered(); hovered != "" {
		parts = append(parts, "hover "+shortenAddress(hovered))
	}
	if selected, transfers := h.view.Selection(); selected != "" {
		parts = append(parts, fmt.Sprintf("selected %s (%d transfers)", shortenAddress(selected), len(transfers)))
	}
	if hidden := h.view.Hidden(); hidden > 0 {
		parts = append(parts, fmt.Sprintf("+%d hidden", hidden))
	}
	line := strings.Join(parts, statusStyle.Render(" | "))
	switch {
	case h.errorMessage != "":
		line += statusStyle.Render(" | ") + errorStyle.Render(h.errorMessage)
	case h.successMessage != "":
		line += statusStyle.Render(" | " + h.successMessage)
	}
	return statusStyle.Width(h.cols).MaxWidth(h.cols).Render(line)
}

func (h *terminalHost) summaryLine() string {
	parts := []string{fmt.Sprintf("addresses %d", h.summary.Addresses)}
	for _, c := range categories {
		parts = append(parts, fmt.Sprintf("%s %d", c, h.summary.ByCategory[c]))
	}
	vp := h.zone.Viewport()
	parts = append(parts,
		fmt.Sprintf("pan %.0f,%.0f", vp.X, vp.Y),
		fmt.Sprintf("ratio %.1f", h.zone.PixelRatio()),
		"q quit",
	)
	return statusStyle.Width(h.cols).MaxWidth(h.cols).Render(strings.Join(parts, "  "))
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// rasterize downsamples img to cols x 2*rows dots and prints each pair of
// vertically stacked dots as one half-block cell. Runs of identically
// coloured cells share one style.
func rasterize(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 || img.Bounds().Empty() {
		return ""
	}
	dots := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.CatmullRom.Scale(dots, dots.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		var run strings.Builder
		var fg, bg string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Background(lipgloss.Color(bg))
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for x := 0; x < cols; x++ {
			top, bottom := hexColor(dots.RGBAAt(x, 2*y)), hexColor(dots.RGBAAt(x, 2*y+1))
			if top != fg || bottom != bg {
				flush()
				fg, bg = top, bottom
			}
			run.WriteString(halfBlock)
		}
		flush()
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
