package ui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const (
	animFPS = 60

	navbarEntrance    = 500 * time.Millisecond
	containerEntrance = 600 * time.Millisecond

	// slideOffset is how many columns an entering element starts shifted by.
	slideOffset = 4
	settleEps   = 0.01
)

// Entrance drives a 0 -> 1 entrance with a critically damped spring.
type Entrance struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

// NewEntrance returns an entrance that settles in roughly d.
func NewEntrance(d time.Duration) Entrance {
	freq := 6.0 / d.Seconds()
	return Entrance{spring: harmonica.NewSpring(harmonica.FPS(animFPS), freq, 1.0)}
}

// SettledEntrance is an entrance that has already finished.
func SettledEntrance() Entrance {
	return Entrance{pos: 1}
}

// Progress is in [0, 1].
func (e Entrance) Progress() float64 {
	return max(0, min(1, e.pos))
}

func (e Entrance) Done() bool { return e.pos >= 1 }

// Step advances one frame.
func (e Entrance) Step() Entrance {
	if e.Done() {
		return e
	}
	e.pos, e.vel = e.spring.Update(e.pos, e.vel, 1)
	if math.Abs(1-e.pos) < settleEps {
		e.pos, e.vel = 1, 0
	}
	return e
}

// Offset is the current slide offset in columns.
func (e Entrance) Offset() int {
	return int(math.Round((1 - e.Progress()) * slideOffset))
}

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(time.Second/animFPS, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
