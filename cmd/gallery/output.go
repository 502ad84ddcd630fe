package main

import (
	"fmt"
	"io"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

type printer struct {
	w       io.Writer
	noColor bool
}

func (p printer) colorize(color, text string) string {
	if p.noColor {
		return text
	}
	return color + text + colorReset
}

func (p printer) success(format string, args ...any) {
	fmt.Fprintln(p.w, p.colorize(colorGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func (p printer) warning(format string, args ...any) {
	fmt.Fprintln(p.w, p.colorize(colorYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func (p printer) status(label, format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.colorize(colorBold, label+":"), fmt.Sprintf(format, args...))
}
