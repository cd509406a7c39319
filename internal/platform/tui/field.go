package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/latency"
)

// Minimum terminal size for the playfield.
const (
	minFieldCols = 24
	minFieldRows = 10
	hudRows      = 2
)

// Indicator texts shown next to the score line.
const (
	IndicatorPractice = "PRACTICE MODE"
)

// Geometry is the logical playfield the snapshot coordinates refer to.
type Geometry struct {
	Width        float64
	Height       float64
	PaddleHeight float64
	PaddleInset  float64
}

// Layout maps the logical playfield onto terminal cells.
type Layout struct {
	Geo   Geometry
	Box   core.Rect // border
	Field core.Rect // interior cells
	Up    core.Rect // on-screen up button
	Down  core.Rect // on-screen down button
}

// NewLayout computes the layout for a w x h terminal.
func NewLayout(w, h int, geo Geometry) Layout {
	box := core.NewRect(0, hudRows, w, h-hudRows-1)
	return Layout{
		Geo:   geo,
		Box:   box,
		Field: box.Inset(1),
		Up:    core.NewRect(1, h-1, 3, 1),
		Down:  core.NewRect(5, h-1, 3, 1),
	}
}

// Fits reports whether the terminal is large enough to draw the field.
func (l Layout) Fits() bool {
	return l.Box.W >= minFieldCols && l.Box.H+hudRows+1 >= minFieldRows
}

// CellX maps a logical x to a field column.
func (l Layout) CellX(x float64) int {
	c := int(math.Floor(x / l.Geo.Width * float64(l.Field.W)))
	return l.Field.X + core.Clamp(c, 0, l.Field.W-1)
}

// CellY maps a logical y to a field row.
func (l Layout) CellY(y float64) int {
	r := int(math.Floor(y / l.Geo.Height * float64(l.Field.H)))
	return l.Field.Y + core.Clamp(r, 0, l.Field.H-1)
}

// LogicalY maps a terminal row to the logical y at the row's center,
// clamped to the playfield.
func (l Layout) LogicalY(row int) float64 {
	if l.Field.H <= 0 {
		return l.Geo.Height / 2
	}
	y := (float64(row-l.Field.Y) + 0.5) / float64(l.Field.H) * l.Geo.Height
	return core.ClampF(y, 0, l.Geo.Height)
}

// InField reports whether a terminal cell lies inside the playfield.
func (l Layout) InField(x, y int) bool {
	return l.Field.Contains(x, y)
}

// HUD is the per-frame overlay state that does not come from the snapshot.
type HUD struct {
	Indicator  string
	AvgLatency float64
	HasLatency bool
	LocalIndex int
	Notice     string
	Sound      bool
	Help       string
}

func indicatorColor(text string) core.Color {
	switch text {
	case "ONLINE":
		return core.ColorGreen
	case "OFFLINE":
		return core.ColorRed
	case IndicatorPractice:
		return core.ColorCyan
	default:
		return core.ColorYellow
	}
}

func latencyColor(ms float64) core.Color {
	switch latency.Rate(ms) {
	case latency.QualityGood:
		return core.ColorGreen
	case latency.QualityFair:
		return core.ColorYellow
	case latency.QualityPoor:
		return core.ColorOrange
	default:
		return core.ColorRed
	}
}

var playerColors = [2]core.Color{core.ColorCyan, core.ColorMagenta}

// DrawMatch paints a snapshot with its HUD. A nil snapshot draws an empty
// field waiting for the first state.
func DrawMatch(s *core.Screen, l Layout, snap *core.Snapshot, hud HUD, q core.RenderQuality) {
	s.Clear()
	if !l.Fits() {
		s.DrawTextCentered(s.Height()/2, "Terminal too small", core.ColorRed)
		return
	}

	drawHUD(s, snap, hud)
	drawField(s, l, q)
	drawButtons(s, l, hud)

	if !snap.Ready() {
		s.DrawTextCentered(l.Field.Y+l.Field.H/2, "Waiting for game state...", core.ColorGray)
		return
	}

	paddle, ball := '█', '●'
	if q.LowFidelity {
		paddle, ball = '|', 'O'
	}
	for i, p := range snap.Players {
		x := l.Geo.PaddleInset
		if i == 1 {
			x = l.Geo.Width - l.Geo.PaddleInset
		}
		half := l.Geo.PaddleHeight / 2
		top := l.CellY(p.PaddleY - half)
		bottom := l.CellY(p.PaddleY + half - 1e-6)
		s.DrawVLine(l.CellX(x), top, bottom-top+1, paddle, playerColors[i])
	}
	s.SetColored(l.CellX(snap.Ball.X), l.CellY(snap.Ball.Y), ball, core.ColorWhite)

	switch snap.Phase {
	case core.PhaseCountdown:
		s.DrawTextCentered(l.Field.Y+l.Field.H/3, "Get ready!", core.ColorYellow)
	case core.PhaseFinished:
		s.DrawTextCentered(l.Field.Y+l.Field.H/3, "Match over", core.ColorYellow)
	}
}

func drawField(s *core.Screen, l Layout, q core.RenderQuality) {
	s.DrawBox(l.Box, core.ColorGray)
	if q.LowFidelity {
		return
	}
	mid := l.Field.X + l.Field.W/2
	for y := l.Field.Y; y < l.Field.Bottom(); y += 2 {
		s.SetColored(mid, y, '┊', core.ColorGray)
	}
}

func drawHUD(s *core.Screen, snap *core.Snapshot, hud HUD) {
	if snap.Ready() {
		w := s.Width()
		for i, p := range snap.Players {
			name := p.Name
			if i == hud.LocalIndex {
				name += " (you)"
			}
			lat := fmt.Sprintf("%.0fms %s", p.LatencyMs, latency.Rate(p.LatencyMs))
			if i == 0 {
				s.DrawText(1, 0, fmt.Sprintf("%s  %d", name, p.Score), playerColors[0])
				s.DrawText(1, 1, lat, latencyColor(p.LatencyMs))
				continue
			}
			score := fmt.Sprintf("%d  %s", p.Score, name)
			s.DrawText(w-1-len([]rune(score)), 0, score, playerColors[1])
			s.DrawText(w-1-len([]rune(lat)), 1, lat, latencyColor(p.LatencyMs))
		}
	}

	ind := hud.Indicator
	if hud.HasLatency {
		ind = fmt.Sprintf("%s %.0fms", ind, hud.AvgLatency)
	}
	s.DrawTextCentered(0, ind, indicatorColor(hud.Indicator))
	if hud.Notice != "" {
		s.DrawTextCentered(1, hud.Notice, core.ColorYellow)
	}
}

func drawButtons(s *core.Screen, l Layout, hud HUD) {
	s.DrawText(l.Up.X, l.Up.Y, "[▲]", core.ColorWhite)
	s.DrawText(l.Down.X, l.Down.Y, "[▼]", core.ColorWhite)

	sound := "sound on"
	if !hud.Sound {
		sound = "muted"
	}
	help := sound
	if hud.Help != "" {
		help = hud.Help + "  " + sound
	}
	s.DrawText(l.Down.Right()+2, l.Down.Y, help, core.ColorGray)
}

// DrawWaiting paints the hosted-room screen.
func DrawWaiting(s *core.Screen, code string, hud HUD) {
	s.Clear()
	h := s.Height()
	s.DrawTextCentered(0, hud.Indicator, indicatorColor(hud.Indicator))
	s.DrawTextCentered(h/2-3, "ROOM CREATED", core.ColorWhite)
	s.DrawTextCentered(h/2-1, "Share this code with your opponent:", core.ColorGray)
	s.DrawTextCentered(h/2+1, fmt.Sprintf("[ %s ]", code), core.ColorYellow)
	s.DrawTextCentered(h/2+3, "Waiting for opponent...", core.ColorGray)
	if hud.Notice != "" {
		s.DrawTextCentered(h/2+5, hud.Notice, core.ColorYellow)
	}
	s.DrawTextCentered(h-1, "esc: cancel  q: quit", core.ColorGray)
}

// DrawGameOver paints the result screen from the final snapshot.
func DrawGameOver(s *core.Screen, final *core.Snapshot, localIndex int, practice bool) {
	s.Clear()
	h := s.Height()
	s.DrawTextCentered(h/2-4, "GAME OVER", core.ColorWhite)

	if final != nil {
		title := "Winner: " + final.Winner
		color := core.ColorYellow
		if localIndex >= 0 && localIndex < len(final.Players) && final.Winner != "" {
			if final.Players[localIndex].Name == final.Winner {
				title, color = "You win!", core.ColorGreen
			} else {
				title, color = "You lose", core.ColorRed
			}
		}
		if final.Winner == "" {
			title = "Match ended"
		}
		s.DrawTextCentered(h/2-2, title, color)

		if final.Ready() {
			a, b := final.Players[0], final.Players[1]
			s.DrawTextCentered(h/2, fmt.Sprintf("%s  %d - %d  %s", a.Name, a.Score, b.Score, b.Name), core.ColorCyan)
		}
	}

	again := "r: new room"
	if practice {
		again = "r: play again"
	}
	s.DrawTextCentered(h/2+3, again+"  esc: main menu  q: quit", core.ColorGray)
}
