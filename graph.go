package main

import (
	"math"
	"slices"
	"strconv"

	"github.com/fogleman/gg"
)

type Theme struct {
	Line       string `toml:"line"`
	Hover      string `toml:"hover"`
	Text       string `toml:"text"`
	Connector  string `toml:"connector"`
	Label      string `toml:"label"`
	Background string `toml:"background"`
}

func defaultTheme() Theme {
	return Theme{
		Line:       colorAddressLine,
		Hover:      colorAddressHover,
		Text:       colorAddressText,
		Connector:  colorLine,
		Label:      colorLabel,
		Background: colorBackground,
	}
}

// FreeSlots lays out every box position that fits the canvas, column by
// column, each box followed by at least spacing on all sides.
func FreeSlots(width, height, boxW, boxH, spacing float64) []point {
	if boxW+spacing <= 0 || boxH+spacing <= 0 {
		return nil
	}
	cols := int(math.Floor(width / (boxW + spacing)))
	rows := int(math.Floor(height / (boxH + spacing)))
	if cols <= 0 || rows <= 0 {
		return nil
	}

	slots := make([]point, 0, cols*rows)
	for h := 0; h < cols; h++ {
		for v := 0; v < rows; v++ {
			slots = append(slots, point{
				X: spacing + float64(h)*(boxW+spacing),
				Y: spacing + float64(v)*(boxH+spacing),
			})
		}
	}
	return slots
}

// middleIndex is the slot handed out next from a pool of n > 0 slots.
func middleIndex(n int) int {
	return (n - 1) / 2
}

type addressElement struct {
	x, y, w, h float64
	address    string
	connect    *BoxElement
	label      string
}

// drawAddressElement draws one address box, its connector to connect and
// the hover outline. It reports whether hover lies inside the box.
func drawAddressElement(dc *gg.Context, el addressElement, hover *point, theme Theme) (BoxElement, bool) {
	path := roundedRect(dc, el.x, el.y, el.w, el.h, addressRadius, RectStyle{
		LineWidth:   addressLineWidth,
		StrokeStyle: theme.Line,
	})

	dc.SetFontFace(fontFace(FontRegular, addressFontSize))
	dc.SetHexColor(theme.Text)
	dc.DrawString(fitText(dc, el.address, el.w-addressPadding*2), el.x+addressPadding, el.y+addressPadding+10)

	box := BoxElement{X: el.x, Y: el.y, W: el.w, H: el.h, Path: path}
	if el.connect != nil {
		connectElements(dc, *el.connect, box, LineOptions{
			Label:      el.label,
			LineColor:  theme.Connector,
			LabelColor: theme.Label,
		})
	}

	hovered := false
	if hover != nil {
		hovered = path.ContainsPoint(hover.X, hover.Y)
		dc.SetLineWidth(addressLineWidth)
		if hovered {
			dc.SetHexColor(theme.Hover)
		} else {
			dc.SetHexColor(theme.Line)
		}
		path.Replay(dc)
		dc.Stroke()
	}
	return box, hovered
}

// GraphView draws the root address and its counterparties and keeps the
// current selection.
type GraphView struct {
	Root     string
	Theme    Theme
	OnSelect func(counterparty string, transfers []Transfer)

	groups    *TransferGroups
	selected  string
	selection []Transfer
	hovered   string
	hidden    int
	root      *BoxElement
	boxes     map[string]BoxElement
	labels    map[string]string
}

func NewGraphView(root string, theme Theme) *GraphView {
	if root == "" {
		root = "root"
	}
	return &GraphView{
		Root:   root,
		Theme:  theme,
		boxes:  map[string]BoxElement{},
		labels: map[string]string{},
	}
}

// SetTransfers replaces the grouped transfers wholesale.
func (g *GraphView) SetTransfers(groups *TransferGroups) {
	g.groups = groups
}

func (g *GraphView) Groups() *TransferGroups {
	return g.groups
}

func (g *GraphView) Selection() (string, []Transfer) {
	return g.selected, g.selection
}

func (g *GraphView) ClearSelection() {
	g.selected, g.selection = "", nil
}

// Hovered is the address under the pointer as of the last frame.
func (g *GraphView) Hovered() string {
	return g.hovered
}

// Hidden is how many counterparties did not fit on the last frame.
func (g *GraphView) Hidden() int {
	return g.hidden
}

// RootBox returns where the root was drawn on the last frame.
func (g *GraphView) RootBox() (BoxElement, bool) {
	if g.root == nil {
		return BoxElement{}, false
	}
	return *g.root, true
}

// Box returns where counterparty address was drawn on the last frame. The
// root is kept apart, so a counterparty equal to the root does not hide it.
func (g *GraphView) Box(address string) (BoxElement, bool) {
	b, ok := g.boxes[address]
	return b, ok
}

// Label returns the text on the connector to address on the last frame.
func (g *GraphView) Label(address string) (string, bool) {
	l, ok := g.labels[address]
	return l, ok
}

func (g *GraphView) Draw(dc *gg.Context, frame Frame) {
	width, height := float64(dc.Width()), float64(dc.Height())
	if frame.Viewport != nil {
		width, height = frame.Viewport.Width, frame.Viewport.Height
	}

	g.hovered = ""
	g.hidden = 0
	g.root = nil
	clear(g.boxes)
	clear(g.labels)

	slots := FreeSlots(width, height, addressElementWidth, addressElementHeight, addressesMinDistance)
	if len(slots) == 0 {
		g.hidden = g.groups.Len()
		return
	}

	var hover *point
	if frame.MoveEvent != nil {
		x, y := frame.WorldPoint(*frame.MoveEvent)
		hover = &point{x, y}
	}
	var click *point
	if ev, ok := frame.FirstEvent(EventTypeClick); ok {
		x, y := frame.WorldPoint(ev.Event)
		click = &point{x, y}
	}

	i := middleIndex(len(slots))
	root, hovered := drawAddressElement(dc, addressElement{
		x: slots[i].X, y: slots[i].Y,
		w: addressElementWidth, h: addressElementHeight,
		address: g.Root,
	}, hover, g.Theme)
	if hovered {
		g.hovered = g.Root
	}
	g.root = &root
	slots = slices.Delete(slots, i, i+1)

	for _, address := range g.groups.Keys() {
		if len(slots) == 0 {
			g.hidden++
			continue
		}
		transfers := g.groups.Get(address)
		label := strconv.Itoa(len(transfers))

		i := middleIndex(len(slots))
		box, hovered := drawAddressElement(dc, addressElement{
			x: slots[i].X, y: slots[i].Y,
			w: addressElementWidth, h: addressElementHeight,
			address: address,
			connect: &root,
			label:   label,
		}, hover, g.Theme)
		slots = slices.Delete(slots, i, i+1)
		g.boxes[address] = box
		g.labels[address] = label

		if hovered {
			g.hovered = address
		}
		if click != nil && box.Path.ContainsPoint(click.X, click.Y) {
			g.selected, g.selection = address, transfers
			if g.OnSelect != nil {
				g.OnSelect(address, transfers)
			}
		}
	}
}
