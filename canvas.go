package main

import (
	"math"
	"sort"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

type FontFamily int

const (
	FontRegular FontFamily = iota
	FontMono
)

type faceKey struct {
	family FontFamily
	size   float64
}

var (
	fontsMu sync.Mutex
	fonts   = map[FontFamily]*truetype.Font{}
	faces   = map[faceKey]font.Face{}
)

func mustParseFont(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic("parse bundled font: " + err.Error())
	}
	return f
}

// fontFace returns a cached face for the family at size points (72 DPI, so
// one point is one logical pixel).
func fontFace(family FontFamily, size float64) font.Face {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	key := faceKey{family, size}
	if face, ok := faces[key]; ok {
		return face
	}
	f, ok := fonts[family]
	if !ok {
		switch family {
		case FontMono:
			f = mustParseFont(gomono.TTF)
		default:
			f = mustParseFont(goregular.TTF)
		}
		fonts[family] = f
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faces[key] = face
	return face
}

// RectStyle mirrors the optional canvas state set before filling or
// stroking a shape. Zero values leave the context untouched.
type RectStyle struct {
	LineWidth   float64
	FillStyle   string
	StrokeStyle string
}

// roundedRect builds a closed rounded rectangle, fills and strokes it as
// the style asks and returns the path for later hit-testing or restroking.
func roundedRect(dc *gg.Context, x, y, w, h, r float64, style RectStyle) *Path {
	if w < 2*r {
		r = w / 2
	}
	if h < 2*r {
		r = h / 2
	}

	rect := NewPath()
	rect.MoveTo(x+r, y)
	rect.ArcTo(x+w, y, x+w, y+h, r)
	rect.ArcTo(x+w, y+h, x, y+h, r)
	rect.ArcTo(x, y+h, x, y, r)
	rect.ArcTo(x, y, x+w, y, r)
	rect.ClosePath()

	if style.LineWidth > 0 {
		dc.SetLineWidth(style.LineWidth)
	}
	if style.FillStyle != "" {
		dc.SetHexColor(style.FillStyle)
		rect.Replay(dc)
		dc.Fill()
	}
	if style.StrokeStyle != "" {
		dc.SetHexColor(style.StrokeStyle)
		rect.Replay(dc)
		dc.Stroke()
	}
	return rect
}

type textMeasurer interface {
	MeasureString(s string) (w, h float64)
}

// fitText shortens s with a trailing ellipsis so it fits maxWidth. Strings
// that already fit, or that are no wider than the ellipsis itself, come
// back unchanged.
func fitText(m textMeasurer, s string, maxWidth float64) string {
	width, _ := m.MeasureString(s)
	ellipsisWidth, _ := m.MeasureString(ellipsis)
	if width <= maxWidth || width <= ellipsisWidth {
		return s
	}

	runes := []rune(s)
	target := maxWidth - ellipsisWidth
	n := sort.Search(len(runes)+1, func(i int) bool {
		w, _ := m.MeasureString(string(runes[:i]))
		return w > target
	}) - 1
	if n < 0 {
		n = 0
	}
	return string(runes[:n]) + ellipsis
}

// LineOptions style a connector. An empty Label draws an unbroken line.
type LineOptions struct {
	Label           string
	LabelFontSize   float64
	LabelFontFamily FontFamily
	LabelColor      string
	LineWidth       float64
	LineColor       string
}

func (o LineOptions) withDefaults() LineOptions {
	if o.LabelFontSize <= 0 {
		o.LabelFontSize = 12
	}
	if o.LabelColor == "" {
		o.LabelColor = colorLabel
	}
	if o.LineWidth <= 0 {
		o.LineWidth = 1
	}
	if o.LineColor == "" {
		o.LineColor = colorLine
	}
	return o
}

// labelGap returns where the line stops and restarts around a label of
// width labelWidth centred on the segment.
func labelGap(x1, y1, x2, y2, labelWidth float64) (start, end point) {
	length := distance(x1, y1, x2, y2)
	if length == 0 {
		return point{x1, y1}, point{x1, y1}
	}
	half := (labelWidth + labelMargin) / 2
	t := (length/2 - half) / length
	t2 := (length/2 + half) / length
	start = point{(1-t)*x1 + t*x2, (1-t)*y1 + t*y2}
	end = point{(1-t2)*x1 + t2*x2, (1-t2)*y1 + t2*y2}
	return start, end
}

// labelPlacement returns the anchor and rotation for a label on a line
// with the given gap. Text is turned half way round when the line points
// into the upper half plane so it never reads upside down.
func labelPlacement(angle float64, start, end point) (point, float64) {
	if angle >= 0 && angle <= math.Pi {
		return start, angle
	}
	return end, math.Pi + angle
}

func drawLine(dc *gg.Context, x1, y1, x2, y2 float64, opts LineOptions) {
	opts = opts.withDefaults()

	dc.ClearPath()
	dc.SetLineWidth(opts.LineWidth)
	dc.SetHexColor(opts.LineColor)
	dc.MoveTo(x1, y1)

	if opts.Label != "" {
		dc.SetFontFace(fontFace(opts.LabelFontFamily, opts.LabelFontSize))
		labelWidth, _ := dc.MeasureString(opts.Label)
		start, end := labelGap(x1, y1, x2, y2, labelWidth)

		dc.LineTo(start.X, start.Y)
		dc.MoveTo(end.X, end.Y)

		anchor, rotation := labelPlacement(angleBetween(x1, y1, x2, y2), start, end)

		dc.Push()
		dc.SetHexColor(opts.LabelColor)
		dc.Translate(anchor.X, anchor.Y)
		dc.Rotate(rotation)
		dc.DrawString(opts.Label, labelOffset, labelOffset)
		dc.Pop()
	}

	dc.LineTo(x2, y2)
	dc.Stroke()
}

// connectElements draws the shortest connector between two boxes.
func connectElements(dc *gg.Context, a, b BoxElement, opts LineOptions) Line {
	line := shortestConnector(a, b)
	drawLine(dc, line.X1, line.Y1, line.X2, line.Y2, opts)
	return line
}
