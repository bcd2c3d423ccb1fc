package commands

import (
	"fmt"
	"math"

	"github.com/battlesnakeio/gravitysnake/rules"
	"github.com/battlesnakeio/gravitysnake/session"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	headColor    = termbox.ColorYellow
	wallColor    = termbox.ColorRed
	foodColor    = termbox.ColorMagenta

	// A terminal cell is about twice as tall as it is wide.
	cellW = 10.0
	cellH = 20.0

	left = 2
	top  = 2
)

// boardSize picks the largest board, in cells, that fits a w x h terminal.
func boardSize(w, h int) (cols, rows int) {
	cols, rows = w-2*left, h-top-4
	if cols > 80 {
		cols = 80
	}
	if rows > 40 {
		rows = 40
	}
	if cols < 10 {
		cols = 10
	}
	if rows < 10 {
		rows = 10
	}
	return cols, rows
}

// toCell maps a point of the play area to a board cell.
func toCell(p rules.Point, cols, rows int) (int, int) {
	x := int(math.Floor(p.X / cellW))
	y := int(math.Floor(p.Y / cellH))
	if x < 0 {
		x = 0
	} else if x >= cols {
		x = cols - 1
	}
	if y < 0 {
		y = 0
	} else if y >= rows {
		y = rows - 1
	}
	return x, y
}

func render(s session.State, cols, rows int) error {
	err := termbox.Clear(defaultColor, defaultColor)
	if err != nil {
		return err
	}

	f := s.Frame
	renderTitle(s)
	renderBoard(cols, rows)
	for _, w := range f.Walls {
		renderDisk(w, f.WallRadius, cols, rows, '#', wallColor)
	}
	renderDisk(f.Food, f.FoodRadius, cols, rows, '*', foodColor)
	renderSnake(f.Body, cols, rows)
	renderStatus(s, rows)

	return termbox.Flush()
}

func renderTitle(s session.State) {
	tbprint(left, top-1, defaultColor, defaultColor, fmt.Sprintf(
		"Gravity Snake - %s - Score %d - Best %d", s.Difficulty, s.Frame.Score, s.HighScore))
}

func renderSnake(body []rules.Point, cols, rows int) {
	for i := len(body) - 1; i >= 0; i-- {
		x, y := toCell(body[i], cols, rows)
		color := snakeColor
		if i == 0 {
			color = headColor
		}
		termbox.SetCell(left+x, top+1+y, ' ', color, color)
	}
}

// renderDisk fills every cell whose center lies within r of p.
func renderDisk(p rules.Point, r float64, cols, rows int, ch rune, fg termbox.Attribute) {
	x0, y0 := toCell(rules.Point{X: p.X - r, Y: p.Y - r}, cols, rows)
	x1, y1 := toCell(rules.Point{X: p.X + r, Y: p.Y + r}, cols, rows)
	drawn := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := rules.Point{X: (float64(x) + 0.5) * cellW, Y: (float64(y) + 0.5) * cellH}
			if rules.Distance(c, p) <= r {
				termbox.SetCell(left+x, top+1+y, ch, fg, bgColor)
				drawn = true
			}
		}
	}
	if !drawn {
		x, y := toCell(p, cols, rows)
		termbox.SetCell(left+x, top+1+y, ch, fg, bgColor)
	}
}

func renderStatus(s session.State, rows int) {
	y := top + rows + 2
	switch {
	case s.Frame.Death != nil:
		text := fmt.Sprintf("Game over (%s) after %d ticks. Press space to continue.",
			s.Frame.Death.Cause, s.Frame.Death.Tick)
		if s.NewHighScore {
			text = "New high score! " + text
		}
		tbprint(left, y, headColor, defaultColor, text)
	default:
		tbprint(left, y, defaultColor, defaultColor, "Arrows tilt the board, esc quits.")
	}
}

func renderBoard(cols, rows int) {
	bottom := top + rows + 1
	for i := top + 1; i < bottom; i++ {
		termbox.SetCell(left-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(left+cols, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(left-1, top, '┌', defaultColor, bgColor)
	termbox.SetCell(left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(left+cols, top, '┐', defaultColor, bgColor)
	termbox.SetCell(left+cols, bottom, '┘', defaultColor, bgColor)

	fill(left, top, cols, 1, termbox.Cell{Ch: '─'})
	fill(left, bottom, cols, 1, termbox.Cell{Ch: '─'})
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}
