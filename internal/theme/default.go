package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"git.lost.host/meutraa/twolane/internal/game"
)

const (
	noteSym  = "⬤"
	tailSym  = "┃"
	barSym   = "─"
	pressSym = "━"
)

var (
	laneColors = [...]lipgloss.Color{
		"#EC1E00", // red
		"#0076EC", // blue
		"#6A00EC", // purple
		"#ECC300", // yellow
		"#EC006A", // pink
		"#EC8000", // orange
		"#ADECEC", // light blue
		"#00EC80", // green
	}
	labelColors = map[game.Label]lipgloss.Color{
		game.Perfect: "#00EC80",
		game.Good:    "#0076EC",
		game.Near:    "#ECC300",
		game.Miss:    "#EC1E00",
	}
	grey  = lipgloss.Color("#6A6A6A")
	white = lipgloss.Color("#FFFFFF")
)

type DefaultTheme struct {
	notes  []lipgloss.Style
	tails  []lipgloss.Style
	labels map[game.Label]lipgloss.Style
	bar    lipgloss.Style
	name   lipgloss.Style
	value  lipgloss.Style
	title  lipgloss.Style
}

func New() *DefaultTheme {
	t := &DefaultTheme{
		labels: map[game.Label]lipgloss.Style{},
		bar:    lipgloss.NewStyle().Foreground(grey),
		name:   lipgloss.NewStyle().Foreground(grey).Width(12).Align(lipgloss.Right),
		value:  lipgloss.NewStyle().Foreground(white).Bold(true),
		title:  lipgloss.NewStyle().Foreground(white).Bold(true).Underline(true),
	}
	for _, c := range laneColors {
		t.notes = append(t.notes, lipgloss.NewStyle().Foreground(c).Bold(true))
		t.tails = append(t.tails, lipgloss.NewStyle().Foreground(c).Faint(true))
	}
	for label, c := range labelColors {
		t.labels[label] = lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return t
}

func (t *DefaultTheme) laneStyle(styles []lipgloss.Style, lane int) lipgloss.Style {
	return styles[lane%len(styles)]
}

func (t *DefaultTheme) RenderNote(lane int) string {
	return t.laneStyle(t.notes, lane).Render(noteSym)
}

func (t *DefaultTheme) RenderTail(lane int) string {
	return t.laneStyle(t.tails, lane).Render(tailSym)
}

func (t *DefaultTheme) RenderHitField(lane int, pressed bool) string {
	if pressed {
		return t.laneStyle(t.notes, lane).Render(pressSym)
	}
	return t.bar.Render(barSym)
}

func (t *DefaultTheme) RenderLabel(label game.Label) string {
	return t.labels[label].Render(label.String())
}

func (t *DefaultTheme) RenderStat(name string, value interface{}) string {
	return t.name.Render(name+":") + " " + t.value.Render(fmt.Sprint(value))
}

func (t *DefaultTheme) RenderTitle(title string) string {
	return t.title.Render(title)
}
