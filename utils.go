package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanAddress keeps the first non-empty line of pasted text with
// surrounding whitespace and quotes removed.
func cleanAddress(text string) string {
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.Trim(strings.TrimSpace(line), "\"'`")
		if line != "" {
			return line
		}
	}
	return ""
}

// shortenAddress abbreviates long hex addresses as 0x1234…abcd.
func shortenAddress(address string) string {
	if len(address) <= 14 || !strings.HasPrefix(address, "0x") {
		return address
	}
	return address[:6] + "…" + address[len(address)-4:]
}

func (h *terminalHost) copySelection() {
	selected, _ := h.view.Selection()
	if selected == "" {
		h.errorMessage = "nothing selected"
		return
	}
	if err := clipboard.WriteAll(selected); err != nil {
		h.errorMessage = "clipboard: " + err.Error()
		return
	}
	h.successMessage = "copied " + shortenAddress(selected)
}

// pasteRoot relabels the root box with an address from the clipboard.
func (h *terminalHost) pasteRoot() {
	text, err := readClipboardText()
	if err != nil {
		h.errorMessage = "clipboard: " + err.Error()
		return
	}
	address := cleanAddress(text)
	if address == "" {
		h.errorMessage = "clipboard is empty"
		return
	}
	h.view.Root = address
	h.successMessage = "root " + shortenAddress(address)
}
