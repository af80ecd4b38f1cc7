package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"git.lost.host/meutraa/keyed/internal/input"
	"git.lost.host/meutraa/keyed/internal/player"
	"git.lost.host/meutraa/keyed/internal/render"
	"git.lost.host/meutraa/keyed/internal/status"
	"git.lost.host/meutraa/keyed/internal/theme"
	"github.com/charmbracelet/log"
)

// How long to keep drawing after the last event
const endTail = 2 * time.Second

var (
	red   = color.RGBA{R: 236, G: 30, B: 0}
	green = color.RGBA{R: 0, G: 236, B: 128}
	gray  = color.RGBA{R: 128, G: 128, B: 128}
)

type Position struct {
	X, Y uint16
}

// Program is one session: a song played against the user's input, drawn to
// the terminal once per frame.
type Program struct {
	Renderer render.Renderer
	Theme    theme.Theme
	Player   *player.Player
	Keyboard game.KeyboardRange
	Input    <-chan input.Event
	Status   *status.Server // May be nil

	RewindStep time.Duration

	width, height uint16
	keyboardAt    Position
	sideCol       uint16

	// File notes sounding, by key
	sounding   [128]bool
	lastMissed uint64
	quit       bool
}

func (p *Program) Resize() {
	columns, rows := p.Renderer.Size()
	p.width, p.height = uint16(columns), uint16(rows)

	x := 1
	if keys := p.Keyboard.Count(); keys < columns {
		x = (columns-keys)/2 + 1
	}
	p.keyboardAt = Position{X: uint16(x), Y: p.height / 2}
	p.sideCol = p.keyboardAt.X
}

// Frame is the render loop callback. It returns false when the session is
// over.
func (p *Program) Frame(now time.Time, delta time.Duration) bool {
	p.Update(delta)
	p.Render()
	if nil != p.Status {
		p.Status.Publish(p.Snapshot())
	}
	return !p.quit && p.Player.Time() <= p.Player.Length()+endTail
}

func (p *Program) Update(delta time.Duration) {
	for _, ev := range input.Drain(p.Input) {
		if ev.IsNote() {
			p.Player.PressKey(ev.Note, ev.Pressed)
			if ev.Pressed {
				p.decoratePress(ev.Note)
			}
			continue
		}
		p.command(ev)
	}

	events, _ := p.Player.Update(delta)
	for i := range events {
		ev := &events[i]
		if ev.IsPercussion() {
			continue
		}
		if key, on, ok := ev.Note(); ok {
			p.sounding[key] = on
		}
	}

	if missed := p.Player.PlayAlong().Stats().Missed; missed > p.lastMissed {
		p.lastMissed = missed
		p.Renderer.AddDecoration(p.sideCol, p.keyboardAt.Y+4, "\033[1;31mmissed\033[0m", 60)
	}
}

func (p *Program) command(ev input.Event) {
	switch ev.Command {
	case input.Quit:
		p.quit = true
	case input.TogglePause:
		p.Player.PauseResume()
		p.clearSounding()
	case input.Back:
		p.Player.Rewind(-p.RewindStep)
		p.clearSounding()
	case input.Forward:
		p.Player.Rewind(p.RewindStep)
		p.clearSounding()
	case input.Jump:
		p.Player.SetPercentageTime(ev.Percent)
		p.clearSounding()
	}
	log.Debug("command", "command", ev.Command, "time", p.Player.Time())
}

func (p *Program) clearSounding() {
	p.sounding = [128]bool{}
}

func (p *Program) decoratePress(note uint8) {
	if !p.Keyboard.Contains(note) {
		return
	}
	col := p.keyboardAt.X + uint16(note-p.Keyboard.Low)
	p.Renderer.AddDecoration(col, p.keyboardAt.Y+1, p.Theme.RenderKey(note, theme.Pressed), 12)
}

func (p *Program) Render() {
	p.Resize()
	song := p.Player.Song()
	along := p.Player.PlayAlong()

	p.Renderer.ClearRow(2)
	p.Renderer.Fill(2, p.sideCol, fmt.Sprintf("%v  [%v x%.1f]", song.Name, p.Player.Mode(), p.Player.Speed()))

	// Progress bar
	done := int(float64(p.width) * clamp(p.Player.Percentage()))
	p.Renderer.FillColor(3, 1, gray, strings.Repeat("━", done)+strings.Repeat(" ", int(p.width)-done))

	p.Renderer.ClearRow(4)
	p.Renderer.Fill(4, p.sideCol, p.statusLine())

	// Keyboard
	var keys strings.Builder
	for n := int(p.Keyboard.Low); n <= int(p.Keyboard.High); n++ {
		note := uint8(n)
		st := theme.Idle
		switch {
		case along.IsRequired(note):
			st = theme.Required
		case p.sounding[note]:
			st = theme.Sounding
		}
		keys.WriteString(p.Theme.RenderKey(note, st))
	}
	p.Renderer.Fill(p.keyboardAt.Y, p.keyboardAt.X, keys.String())

	// Required notes
	names := []string{}
	for _, note := range along.RequiredNotes() {
		names = append(names, p.Theme.NoteName(note))
	}
	p.Renderer.ClearRow(p.keyboardAt.Y + 2)
	if len(names) > 0 {
		p.Renderer.FillColor(p.keyboardAt.Y+2, p.sideCol, red, "play "+strings.Join(names, " "))
	}

	stats := along.Stats()
	p.Renderer.Fill(p.keyboardAt.Y+5, p.sideCol, fmt.Sprintf("   Early: %6v", stats.Early))
	p.Renderer.Fill(p.keyboardAt.Y+6, p.sideCol, fmt.Sprintf("    Late: %6v", stats.Late))
	p.Renderer.Fill(p.keyboardAt.Y+7, p.sideCol, fmt.Sprintf("  Missed: %6v", stats.Missed))
	p.Renderer.FillColor(p.keyboardAt.Y+8, p.sideCol, green, fmt.Sprintf("Accuracy: %5.1f%%", 100*stats.Accuracy()))
}

func (p *Program) statusLine() string {
	state := ""
	switch {
	case p.Player.IsPaused():
		state = "paused"
	case !p.Player.PlayAlong().AreRequiredKeysPressed() && p.Player.Mode() == player.Wait:
		state = "waiting"
	}
	return fmt.Sprintf("%7.1fs / %.1fs  %3.0f%%  %v",
		p.Player.TimeWithoutLeadIn(),
		p.Player.Song().Length().Seconds(),
		100*clamp(p.Player.Percentage()),
		state,
	)
}

func (p *Program) Snapshot() status.Snapshot {
	along := p.Player.PlayAlong()
	required := []int{}
	for _, note := range along.RequiredNotes() {
		required = append(required, int(note))
	}
	return status.Snapshot{
		Song:       p.Player.Song().Name,
		Mode:       p.Player.Mode().String(),
		Speed:      p.Player.Speed(),
		Time:       p.Player.TimeWithoutLeadIn(),
		Percentage: p.Player.Percentage(),
		Paused:     p.Player.IsPaused(),
		Waiting:    !along.AreRequiredKeysPressed(),
		Required:   required,
		Stats:      along.Stats(),
	}
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
