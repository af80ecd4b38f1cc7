package output

import (
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	synthSampleRate = beep.SampleRate(44100)
	voiceGain       = 0.12
	attackTime      = 5 * time.Millisecond
	releaseTime     = 80 * time.Millisecond
	silence         = 1e-4
)

type voiceKey struct {
	channel, key uint8
}

type voice struct {
	step      float64 // Phase increment per sample, in cycles
	phase     float64
	amp       float64
	target    float64
	releasing bool
}

// Synth is a small polyphonic sine synthesizer played through the beep
// speaker. It is good enough to hear the melody without a MIDI device.
type Synth struct {
	sampleRate    beep.SampleRate
	attack, decay float64 // Per sample amplitude factors
	lock, unlock  func()
	voices        map[voiceKey]*voice
	notes         Sounding
}

func NewSynth() (*Synth, error) {
	if err := speaker.Init(synthSampleRate, synthSampleRate.N(time.Second/30)); nil != err {
		return nil, fmt.Errorf("unable to initialise speaker: %w", err)
	}
	s := newSynth(synthSampleRate, speaker.Lock, speaker.Unlock)
	speaker.Play(s)
	return s, nil
}

func newSynth(sr beep.SampleRate, lock, unlock func()) *Synth {
	return &Synth{
		sampleRate: sr,
		attack:     1 / float64(sr.N(attackTime)),
		decay:      math.Pow(silence, 1/float64(sr.N(releaseTime))),
		lock:       lock,
		unlock:     unlock,
		voices:     map[voiceKey]*voice{},
	}
}

func frequency(key uint8) float64 {
	return 440 * math.Pow(2, (float64(key)-69)/12)
}

func (s *Synth) Send(ev *game.Event) error {
	s.notes.Track(ev)
	key, on, ok := ev.Note()
	// Sine drums are worse than no drums
	if !ok || ev.IsPercussion() {
		return nil
	}

	var ch, k, velocity uint8
	ev.Message.GetNoteStart(&ch, &k, &velocity)

	s.lock()
	defer s.unlock()
	vk := voiceKey{channel: ev.Channel, key: key}
	if !on {
		if v, ok := s.voices[vk]; ok {
			v.releasing = true
		}
		return nil
	}
	s.voices[vk] = &voice{
		step:   frequency(key) / float64(s.sampleRate),
		target: voiceGain * float64(velocity) / 127,
	}
	return nil
}

func (s *Synth) StopAll() {
	s.lock()
	defer s.unlock()
	s.notes.Release(func(channel, key uint8) {})
	for _, v := range s.voices {
		v.releasing = true
	}
}

func (s *Synth) Close() error {
	s.StopAll()
	speaker.Clear()
	return nil
}

// Voices is the number of voices still audible.
func (s *Synth) Voices() int {
	s.lock()
	defer s.unlock()
	return len(s.voices)
}

// Stream implements beep.Streamer. It never runs out.
func (s *Synth) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		samples[i] = [2]float64{}
	}
	for k, v := range s.voices {
		for i := range samples {
			switch {
			case v.releasing:
				v.amp *= s.decay
			case v.amp < v.target:
				v.amp = math.Min(v.target, v.amp+v.target*s.attack)
			}
			x := v.amp * math.Sin(2*math.Pi*v.phase)
			samples[i][0] += x
			samples[i][1] += x
			v.phase += v.step
			if v.phase >= 1 {
				v.phase--
			}
		}
		if v.releasing && v.amp < silence {
			delete(s.voices, k)
		}
	}
	return len(samples), true
}

func (s *Synth) Err() error {
	return nil
}
