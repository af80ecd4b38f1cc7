package config

import (
	"fmt"

	"git.lost.host/meutraa/keyed/internal/game"
	"git.lost.host/meutraa/keyed/internal/player"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("keyed", "Play along with MIDI files on a keyboard")

	File        = app.Arg("file", "MIDI file to play").Required().ExistingFile()
	Speed       = app.Flag("speed", "Playback speed").Default("1.0").Short('r').Float64()
	LeadIn      = app.Flag("lead-in", "Time before the first note").Default("3s").Short('d').Duration()
	FramePeriod = app.Flag("frame-period", "Render frame period").Default("8ms").Short('p').Duration()
	RewindStep  = app.Flag("rewind-step", "Distance moved by the arrow keys").Default("5s").Duration()
	modeName    = app.Flag("mode", "watch, wait for each note, or play without waiting").Default("wait").Short('m').Enum("watch", "wait", "play")
	low         = app.Flag("low", "Lowest note on your keyboard").Default("21").Uint8()
	high        = app.Flag("high", "Highest note on your keyboard").Default("108").Uint8()
	Input       = app.Flag("input", "Where key presses come from").Default("terminal").Short('i').Enum("terminal", "midi", "evdev")
	InputPort   = app.Flag("input-port", "MIDI input name or index, or evdev device path").String()
	BaseNote    = app.Flag("base-note", "Note played by the A key of a computer keyboard").Default("60").Uint8()
	Output      = app.Flag("output", "Where the song is sounded").Default("synth").Short('o').Enum("synth", "midi", "none")
	OutputPort  = app.Flag("output-port", "MIDI output name or index").String()
	Echo        = app.Flag("echo", "Sound your own key presses").Bool()
	Database    = app.Flag("db", "Session history database").Default("./scores.db").String()
	Listen      = app.Flag("listen", "Address to serve status on, e.g. :8080").String()
	LogFile     = app.Flag("log-file", "Write logs here instead of stderr").String()
	LogLevel    = app.Flag("log-level", "debug, info, warn or error").Default("info").Enum("debug", "info", "warn", "error")

	Range game.KeyboardRange
	Mode  player.Mode
)

func init() {
	app.Version("0.3.0")
}

// Parse reads the flags from args, without the program name.
func Parse(args []string) error {
	if _, err := app.Parse(args); nil != err {
		return err
	}

	if *high < *low || *high > 127 {
		return fmt.Errorf("invalid keyboard range %v-%v", *low, *high)
	}
	if *Speed < player.MinSpeed {
		return fmt.Errorf("speed must be at least %v, got %v", player.MinSpeed, *Speed)
	}
	Range = game.KeyboardRange{Low: *low, High: *high}

	var err error
	Mode, err = player.ParseMode(*modeName)
	return err
}

func Usage(args []string) {
	app.Usage(args)
}
