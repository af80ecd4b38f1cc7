package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"git.lost.host/meutraa/keyed/internal/config"
	"git.lost.host/meutraa/keyed/internal/input"
	"git.lost.host/meutraa/keyed/internal/output"
	"git.lost.host/meutraa/keyed/internal/parser"
	"git.lost.host/meutraa/keyed/internal/player"
	"git.lost.host/meutraa/keyed/internal/render"
	"git.lost.host/meutraa/keyed/internal/score"
	"git.lost.host/meutraa/keyed/internal/status"
	"git.lost.host/meutraa/keyed/internal/theme"
	"github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatal(err)
	}
}

func setupLogging(file, level string) (func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if nil != err {
			return closer, fmt.Errorf("unable to open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}

	lvl, err := log.ParseLevel(level)
	if nil != err {
		return closer, err
	}
	log.SetDefault(log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
	}))
	return closer, nil
}

// play runs the frame loop on a cleared screen and returns the wall time
// spent. The terminal is restored even if a frame panics.
func play(
	r render.Renderer,
	p *player.Player,
	period time.Duration,
	frame func(now time.Time, delta time.Duration) bool,
) (time.Duration, error) {
	// Clear the screen and hide the cursor
	if err := r.Init(); nil != err {
		return 0, err
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			log.Error("unable to restore terminal", "err", err)
		}
	}()

	started := time.Now()
	p.Start()
	r.RenderLoop(period, frame)
	return time.Since(started), nil
}

func run(args []string) error {
	if err := config.Parse(args); nil != err {
		return err
	}

	closeLog, err := setupLogging(*config.LogFile, *config.LogLevel)
	defer closeLog()
	if nil != err {
		return err
	}

	// Ensure our Default implementations are used as interfaces
	var psr parser.Parser = &parser.DefaultParser{}
	var scorer score.Scorer = &score.DefaultScorer{}
	var r render.Renderer = &render.DefaultRenderer{}
	var th theme.Theme = &theme.DefaultTheme{}

	song, err := psr.Parse(*config.File)
	if nil != err {
		return err
	}
	log.Info("loaded song", "name", song.Name, "events", len(song.Events), "notes", song.NoteCount, "length", song.Length())

	if err := scorer.Init(*config.Database); nil != err {
		return err
	}
	defer scorer.Deinit()

	histories, err := scorer.Load(song)
	if nil != err {
		return err
	}
	if best, ok := score.Best(histories); ok {
		log.Info("best session",
			"accuracy", fmt.Sprintf("%.1f%%", 100*best.Stats.Accuracy()),
			"speed", best.Speed,
			"mode", best.Mode,
			"played", best.CreatedAt.Format(time.RFC822),
		)
	}

	defer midi.CloseDriver()

	out, err := output.Open(*config.Output, *config.OutputPort)
	if nil != err {
		return err
	}
	defer func() {
		if err := out.Close(); nil != err {
			log.Error("unable to close output", "err", err)
		}
	}()

	src, err := input.Open(*config.Input, input.Options{
		Port:     *config.InputPort,
		BaseNote: *config.BaseNote,
	})
	if nil != err {
		return err
	}
	defer func() {
		if err := src.Close(); nil != err {
			log.Error("unable to close input", "err", err)
		}
	}()

	p := player.New(song, out, player.Options{
		LeadIn:    *config.LeadIn,
		Speed:     *config.Speed,
		Mode:      config.Mode,
		Keyboard:  config.Range,
		EchoInput: *config.Echo,
	})
	defer p.Close()

	var srv *status.Server
	if *config.Listen != "" {
		srv = status.New(*config.Listen, func() ([]score.History, error) {
			return scorer.Load(song)
		})
		if err := srv.Start(); nil != err {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := srv.Close(ctx); nil != err {
				log.Error("unable to stop status server", "err", err)
			}
		}()
	}

	prog := &Program{
		Renderer:   r,
		Theme:      th,
		Player:     p,
		Keyboard:   config.Range,
		Input:      src.Events(),
		Status:     srv,
		RewindStep: *config.RewindStep,
	}

	played, err := play(r, p, *config.FramePeriod, prog.Frame)
	if nil != err {
		return err
	}
	p.Close()

	stats := p.PlayAlong().Stats()
	log.Info("session over",
		"early", stats.Early,
		"late", stats.Late,
		"missed", stats.Missed,
		"accuracy", fmt.Sprintf("%.1f%%", 100*stats.Accuracy()),
	)

	if p.Mode() == player.Watch {
		return nil
	}
	id, err := scorer.Save(song, &score.Result{
		Speed:  p.Speed(),
		Mode:   p.Mode().String(),
		Stats:  stats,
		Inputs: p.Inputs(),
		Played: played,
	})
	if nil != err {
		return err
	}
	log.Info("saved session", "id", id)
	return nil
}
