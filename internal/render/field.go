package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"git.lost.host/meutraa/twolane/internal/config"
	"git.lost.host/meutraa/twolane/internal/engine"
	"git.lost.host/meutraa/twolane/internal/game"
	"git.lost.host/meutraa/twolane/internal/score"
	"git.lost.host/meutraa/twolane/internal/theme"
)

const (
	laneSpacing = 6
	topRow      = 2
	barOffset   = 3 // Rows between the hit-line and the bottom
	labelFrames = 30
)

// Field lays out the lanes and statistics of a session on a Renderer.
type Field struct {
	r     Renderer
	th    theme.Theme
	cfg   config.Config
	name  string
	total int

	rows, hitRow int
	columns      []int
	sideCol      int
}

func NewField(r Renderer, th theme.Theme, cfg config.Config, chart *game.Chart) *Field {
	f := &Field{r: r, th: th, cfg: cfg, name: chart.Name(), total: chart.Len()}
	f.Resize()
	return f
}

// Resize recomputes the layout from the renderer size.
func (f *Field) Resize() {
	cols, rows := f.r.Size()
	f.rows = rows
	f.hitRow = rows - barOffset
	if f.hitRow <= topRow {
		f.hitRow = topRow + 1
	}

	middle := cols / 2
	width := (f.cfg.Lanes - 1) * laneSpacing
	f.columns = make([]int, f.cfg.Lanes)
	for i := range f.columns {
		f.columns[i] = middle - width/2 + i*laneSpacing
	}
	f.sideCol = f.columns[0] - 36
	if f.sideCol < 2 {
		f.sideCol = 2
	}
}

// Row is the terminal row of a note that has travelled offset units.
func (f *Field) Row(offset float64) int {
	p := offset / f.cfg.TravelDistance
	return topRow + int(math.Round(p*float64(f.hitRow-topRow)))
}

func (f *Field) clear() {
	for _, col := range f.columns {
		for row := topRow; row <= f.hitRow; row++ {
			f.r.Fill(row, col, " ")
		}
	}
}

// Draw renders one frame of the session.
func (f *Field) Draw(frame engine.Frame, last game.Judgement, hasLast bool) {
	f.clear()

	for lane, col := range f.columns {
		pressed := lane < len(frame.Pressed) && frame.Pressed[lane]
		f.r.Fill(f.hitRow, col, f.th.RenderHitField(lane, pressed))
	}

	for _, s := range frame.Sprites {
		col := f.columns[s.Lane]
		head := s.Offset
		if s.Holding && head > f.cfg.TravelDistance {
			head = f.cfg.TravelDistance
		}
		if s.TailLength > 0 {
			top := f.Row(math.Max(s.Offset-s.TailLength, 0))
			for row := top; row < f.Row(head) && row <= f.hitRow; row++ {
				if row >= topRow {
					f.r.Fill(row, col, f.th.RenderTail(int(s.Lane)))
				}
			}
		}
		if row := f.Row(head); row >= topRow && row <= f.hitRow {
			f.r.Fill(row, col, f.th.RenderNote(int(s.Lane)))
		}
	}

	for _, j := range frame.Judgements {
		col := f.columns[j.Lane] - 2
		f.r.AddDecoration(col, f.hitRow+1, f.th.RenderLabel(j.Label)+"   ", labelFrames)
	}

	f.drawStats(frame.Now, frame.Tally, last, hasLast)
}

func (f *Field) drawStats(now time.Duration, t score.Tally, last game.Judgement, hasLast bool) {
	lines := []string{
		f.th.RenderTitle(f.name),
		"",
		f.th.RenderStat("Time", fmt.Sprintf("%6.1fs", now.Seconds())),
		f.th.RenderStat("Score", fmt.Sprintf("%6v", t.Score)),
		f.th.RenderStat("Accuracy", fmt.Sprintf("%6.2f%%", t.Accuracy())),
		f.th.RenderStat("Combo", fmt.Sprintf("%6v", t.Combo)),
		f.th.RenderStat("Notes", fmt.Sprintf("%6v", f.total)),
		f.th.RenderStat("Mean", fmt.Sprintf("%6.1fms", float64(t.Mean)/float64(time.Millisecond))),
		f.th.RenderStat("Stdev", fmt.Sprintf("%6.1fms", float64(t.Stdev)/float64(time.Millisecond))),
		"",
	}
	for _, label := range game.Labels {
		lines = append(lines, f.th.RenderStat(label.String(), fmt.Sprintf("%6v", t.Counts[label])))
	}
	if hasLast {
		lines = append(lines, "", f.th.RenderLabel(last.Label)+fmt.Sprintf(" %+5dms", last.Error.Milliseconds())+"      ")
	}
	for i, line := range lines {
		f.r.Fill(topRow+i, f.sideCol, line)
	}
}

// DrawResults replaces the field with the final tally.
func (f *Field) DrawResults(t score.Tally, best int) {
	f.r.Fill(1, 1, "\033[2J")
	lines := []string{
		f.th.RenderTitle(f.name + " results"),
		"",
		f.th.RenderStat("Score", fmt.Sprintf("%v / %v", t.Score, t.MaxPossible)),
		f.th.RenderStat("Accuracy", fmt.Sprintf("%.2f%%", t.Accuracy())),
		f.th.RenderStat("Hold bonus", t.HoldBonus),
		f.th.RenderStat("Max combo", t.MaxCombo),
		f.th.RenderStat("Best", best),
		"",
	}
	for _, label := range game.Labels {
		lines = append(lines, f.th.RenderStat(label.String(), t.Counts[label]))
	}
	lines = append(lines, "", strings.Repeat(" ", 4)+"press esc to exit")

	top := f.rows/2 - len(lines)/2
	if top < 1 {
		top = 1
	}
	for i, line := range lines {
		f.r.Fill(top+i, f.sideCol, line)
	}
}
