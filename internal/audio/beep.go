package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-cartridge/internal/console"
)

// Options configures the synthesizer.
type Options struct {
	SampleRate int     // Output sample rate in Hz
	TickRate   int     // Cartridge ticks per second, converts note durations
	Volume     float64 // Gain in beep's log2 volume units; 0 is unity
}

// DefaultOptions returns options for 60 ticks per second at 44.1kHz.
func DefaultOptions() Options {
	return Options{
		SampleRate: 44100,
		TickRate:   60,
		Volume:     -2,
	}
}

// Speaker is a console speaker the host has to pump once per frame and close
// on exit.
type Speaker interface {
	console.Speaker
	Tick()
	Close()
}

var (
	_ Speaker = (*ClockSpeaker)(nil)
	_ Speaker = (*BeepSpeaker)(nil)
)

// speakerOnce guards the process-wide output device.
var (
	speakerOnce sync.Once
	speakerErr  error
)

// BeepSpeaker synthesizes note sequences and plays them on the local audio
// device.
type BeepSpeaker struct {
	opts Options
	rate beep.SampleRate
	mix  *beep.Mixer
}

// NewBeepSpeaker opens the audio device. The device can only be opened once
// per process; later calls reuse it.
func NewBeepSpeaker(opts Options) (*BeepSpeaker, error) {
	if opts.SampleRate <= 0 || opts.TickRate <= 0 {
		return nil, fmt.Errorf("audio: invalid options: sample rate %d, tick rate %d", opts.SampleRate, opts.TickRate)
	}
	rate := beep.SampleRate(opts.SampleRate)
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("audio: cannot open output device: %w", speakerErr)
	}

	b := &BeepSpeaker{
		opts: opts,
		rate: rate,
		mix:  &beep.Mixer{},
	}
	speaker.Play(b.mix)
	return b, nil
}

// tickDuration converts cartridge ticks to wall time.
func (b *BeepSpeaker) tickDuration(ticks int) time.Duration {
	return time.Duration(ticks) * time.Second / time.Duration(b.opts.TickRate)
}

// voiceStreamer renders one voice as a sequence of tones and rests.
func (b *BeepSpeaker) voiceStreamer(v console.Voice) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(v))
	for _, n := range v {
		if n.Duration <= 0 {
			continue
		}
		samples := b.rate.N(b.tickDuration(n.Duration))
		tone, err := generators.SineTone(b.rate, CartridgeFreq(n.Number))
		if err != nil {
			// Out of range notes become rests so timing is preserved.
			parts = append(parts, beep.Silence(samples))
			continue
		}
		parts = append(parts, beep.Take(samples, tone))
	}
	return beep.Seq(parts...)
}

// Play starts the voices together. The returned sound ends when the
// longest voice has finished or when it is stopped.
func (b *BeepSpeaker) Play(voices []console.Voice) console.Sound {
	s := &beepSound{}

	streams := make([]beep.Streamer, 0, len(voices))
	for _, v := range voices {
		streams = append(streams, b.voiceStreamer(v))
	}
	mixed := beep.Seq(beep.Mix(streams...), beep.Callback(func() {
		s.ended.Store(true)
	}))
	s.ctrl = &beep.Ctrl{
		Streamer: &effects.Volume{Streamer: mixed, Base: 2, Volume: b.opts.Volume},
	}

	speaker.Lock()
	b.mix.Add(s.ctrl)
	speaker.Unlock()
	return s
}

// Tick is a no-op; the audio device keeps its own time.
func (b *BeepSpeaker) Tick() {}

// Close silences everything still playing.
func (b *BeepSpeaker) Close() {
	speaker.Lock()
	b.mix.Clear()
	speaker.Unlock()
}

type beepSound struct {
	ctrl  *beep.Ctrl
	ended atomic.Bool
}

// Stop detaches the stream; the mixer drops it on the next buffer.
func (s *beepSound) Stop() {
	speaker.Lock()
	s.ctrl.Streamer = nil
	speaker.Unlock()
	s.ended.Store(true)
}

func (s *beepSound) Ended() bool {
	return s.ended.Load()
}
