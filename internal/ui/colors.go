package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tuneflow/internal/app"
)

var (
	darkPalette  = NewPalette("#7D56F4", "#04B575", "#FF5F87", "#FFA500", "#626262", "#EEEEEE")
	lightPalette = NewPalette("#5A3FC0", "#027A4B", "#D70000", "#AF5F00", "#8A8A8A", "#1C1C1C")
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	accent lipgloss.Color
	text   lipgloss.Color
	muted  lipgloss.Color

	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	body  lipgloss.Style
	panel lipgloss.Style
	focus lipgloss.Style
}

func NewPalette(t, s, e, w, h, fg string) *Palette {
	panel := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1)
	return &Palette{
		accent: lipgloss.Color(t),
		text:   lipgloss.Color(fg),
		muted:  lipgloss.Color(h),
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		body:   NewStyle(fg),
		panel:  panel,
		focus:  panel.BorderForeground(lipgloss.Color(t)),
	}
}

// paletteFor returns the palette for theme.
func paletteFor(theme app.Theme) *Palette {
	if theme == app.Light {
		return lightPalette
	}
	return darkPalette
}

// delegate returns a list delegate colored with the palette.
func (p *Palette) delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(p.text)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(p.muted)
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(p.accent).BorderLeftForeground(p.accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(p.accent).BorderLeftForeground(p.accent)
	return d
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
