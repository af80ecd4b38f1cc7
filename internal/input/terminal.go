package input

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eiannone/keyboard"
)

// Terminal reads keys from the controlling terminal. A terminal only reports
// key presses, so every note press is followed at once by its release.
type Terminal struct {
	base   uint8
	events chan Event
	done   chan struct{}
}

func OpenTerminal(base uint8) (*Terminal, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	t := &Terminal{
		base:   base,
		events: make(chan Event, 128),
		done:   make(chan struct{}),
	}
	go t.read(keys)
	return t, nil
}

func (t *Terminal) read(keys <-chan keyboard.KeyEvent) {
	defer close(t.events)
	for {
		select {
		case <-t.done:
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			if nil != key.Err {
				log.Error("unable to read key", "err", key.Err)
				return
			}
			for _, ev := range translateKey(key, t.base, time.Now()) {
				select {
				case t.events <- ev:
				case <-t.done:
					return
				}
			}
		}
	}
}

func translateKey(key keyboard.KeyEvent, base uint8, now time.Time) []Event {
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return []Event{{Command: Quit}}
	case keyboard.KeySpace:
		return []Event{{Command: TogglePause}}
	case keyboard.KeyArrowLeft:
		return []Event{{Command: Back}}
	case keyboard.KeyArrowRight:
		return []Event{{Command: Forward}}
	}

	if key.Rune >= '0' && key.Rune <= '9' {
		return []Event{{Command: Jump, Percent: float64(key.Rune-'0') / 10}}
	}
	if key.Rune == 'q' {
		return []Event{{Command: Quit}}
	}
	if note, ok := runeNote(key.Rune, base); ok {
		return []Event{
			{Note: note, Pressed: true, Time: now},
			{Note: note, Pressed: false, Time: now},
		}
	}
	log.Debug("unmapped key", "rune", key.Rune, "key", key.Key)
	return nil
}

func (t *Terminal) Events() <-chan Event {
	return t.events
}

func (t *Terminal) Close() error {
	close(t.done)
	return keyboard.Close()
}
