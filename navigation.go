package main

// handlePan moves the viewport by speed cells. Panning left shows what is
// to the left, so the viewport origin moves the opposite way to the
// content.
func (h *terminalHost) handlePan(key string, speed int) {
	dx := float64(speed) * h.config.CellWidth
	dy := float64(speed) * h.config.CellHeight
	switch key {
	case "h", "left", "H", "shift+left":
		h.zone.PanBy(-dx, 0)
	case "l", "right", "L", "shift+right":
		h.zone.PanBy(dx, 0)
	case "k", "up", "K", "shift+up":
		h.zone.PanBy(0, -dy)
	case "j", "down", "J", "shift+down":
		h.zone.PanBy(0, dy)
	}
}

func getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
