package render

import (
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/theme"
)

const (
	barRow        = 4  // Rows between the hit bar and the bottom edge
	columnSpacing = 3  // Half the columns between lanes
	sideWidth     = 36 // Width of the stats panel
	splashFrames  = 60
)

// View projects session events and the active notes onto a Renderer.
// Register Handle as the session listener and call Draw once per frame.
type View struct {
	r      Renderer
	th     theme.Theme
	lanes  int
	travel time.Duration // Time a note takes from the top row to the hit bar

	rows, columns int
	state         engine.State
	countdown     int
	snapshot      score.Snapshot
	final         *score.Snapshot

	drawn [][2]uint16 // Cells holding a note last frame
}

func NewView(r Renderer, th theme.Theme, lanes int, travel time.Duration) *View {
	v := &View{r: r, th: th, lanes: lanes, travel: travel}
	v.Resize()
	return v
}

func (v *View) Resize() {
	v.rows, v.columns = v.r.Size()
}

func (v *View) hitRow() int {
	return v.rows - barRow
}

// Column is the terminal column of a lane, lanes are centred on the screen
func (v *View) Column(lane int) int {
	return v.columns/2 + columnSpacing*(2*lane-(v.lanes-1))
}

// Row is the terminal row of a note timeToHit away from the hit bar.
// Notes one travel time away are on row 1, late notes fall below the bar.
func (v *View) Row(timeToHit time.Duration) int {
	if v.travel <= 0 {
		return v.hitRow()
	}
	distance := float64(timeToHit) / float64(v.travel) * float64(v.hitRow()-1)
	return v.hitRow() - int(math.Round(distance))
}

// Final is the score of the last finished session, nil until one ends
func (v *View) Final() *score.Snapshot {
	return v.final
}

func (v *View) Handle(e engine.Event) {
	switch e.Kind {
	case engine.StateChanged:
		v.state = e.To
		if e.To == engine.Countdown {
			v.final = nil
		}
	case engine.CountdownTick:
		v.countdown = e.Remaining
	case engine.ScoreChanged:
		v.snapshot = e.Score
	case engine.NoteResolved:
		col := v.Column(e.Note.Lane)
		if col < 1 {
			col = 1
		}
		text := fmt.Sprintf("%-7v", e.Judgement)
		v.r.AddDecoration(uint16(col), uint16(v.hitRow()+2), v.colored(e.Judgement, text[:4]), splashFrames)
	case engine.SessionEnded:
		s := e.Score
		v.final = &s
	}
}

func (v *View) colored(j game.Judgement, text string) string {
	c := v.th.JudgementColor(j)
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, text)
}

// Draw renders one frame, position is the clock position used for judging
func (v *View) Draw(active []engine.ActiveNote, position time.Duration, ok bool) {
	for _, cell := range v.drawn {
		v.r.Fill(cell[0], cell[1], " ")
	}
	v.drawn = v.drawn[:0]

	hit := v.hitRow()
	for lane := 0; lane < v.lanes; lane++ {
		v.r.Fill(uint16(hit), uint16(v.Column(lane)), v.th.HitField(lane))
	}

	if ok {
		for _, n := range active {
			row := v.Row(n.Time - position)
			col := v.Column(n.Lane)
			if row < 1 || row > v.rows || col < 1 || row == hit {
				continue
			}
			v.r.FillColor(uint16(row), uint16(col), v.th.NoteColor(n.Denom), v.th.NoteSymbol(n.Lane))
			v.drawn = append(v.drawn, [2]uint16{uint16(row), uint16(col)})
		}
	}

	v.drawStats()
}

func (v *View) drawStats() {
	side := v.Column(0) - sideWidth
	if side < 2 {
		side = 2
	}
	col := uint16(side)
	mid := uint16(v.rows / 2)
	s := v.snapshot

	switch {
	case v.state == engine.Countdown:
		v.r.Fill(mid, uint16(v.columns/2), fmt.Sprintf("%v", v.countdown))
	case v.final != nil:
		v.r.Fill(mid, col, "Well played!")
		v.r.Fill(mid+1, col, fmt.Sprintf("Your score is %v", v.final.Score))
	default:
		v.r.Fill(mid, uint16(v.columns/2), " ")
	}

	v.r.Fill(2, col, fmt.Sprintf("      Score:  %6v", s.Score))
	v.r.Fill(3, col, fmt.Sprintf("      Combo:  %6v", s.Combo))
	v.r.Fill(4, col, fmt.Sprintf("  Max Combo:  %6v", s.MaxCombo))
	v.r.Fill(5, col, fmt.Sprintf("       Last:  %-7v", s.LastJudgement))
	v.r.Fill(7, col, fmt.Sprintf("       Mean:  %6.1f ms", float64(s.Mean)/float64(time.Millisecond)))
	v.r.Fill(8, col, fmt.Sprintf("      Stdev:  %6.1f ms", float64(s.Stdev)/float64(time.Millisecond)))
	for i, j := range []game.Judgement{game.Perfect, game.Good, game.Miss} {
		v.r.FillColor(uint16(10+i), col, v.th.JudgementColor(j), fmt.Sprintf("%11v:  %6v", j, s.Counts[j]))
	}
}
