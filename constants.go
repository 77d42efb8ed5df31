package main

type EventKind int

const (
	EventClick EventKind = iota
	EventMove
	EventDown
	EventUp
	EventResize
	EventPixelRatio
)

type EventType int

const (
	EventTypeClick EventType = iota
)

func (t EventType) String() string {
	switch t {
	case EventTypeClick:
		return "onclick"
	}
	return "unknown"
}

type ZoneState int

const (
	ZoneUninitialized ZoneState = iota
	ZoneActive
	ZoneTornDown
)

func (s ZoneState) String() string {
	switch s {
	case ZoneUninitialized:
		return "uninitialized"
	case ZoneActive:
		return "active"
	case ZoneTornDown:
		return "torn down"
	}
	return "unknown"
}

const (
	addressElementWidth  = 150.0
	addressElementHeight = 70.0
	addressesMinDistance = 50.0

	addressRadius    = 4.0
	addressLineWidth = 2.0
	addressPadding   = 5.0
	addressFontSize  = 14.0

	labelMargin = 6.0
	labelOffset = 3.0

	ellipsis = "..."

	defaultMaxFPS     = 30
	defaultCellWidth  = 8.0
	defaultCellHeight = 16.0
)

const (
	colorAddressLine  = "#42a5f5"
	colorAddressHover = "#0288d1"
	colorAddressText  = "#ffffff"
	colorLine         = "#ffffff"
	colorLabel        = "#ffffff"
	colorBackground   = "#121212"
)
