package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#E5A00D", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	question lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
}

func NewPalette(t, q, e, w, h string) *Palette {
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		question: NewBold(q),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
