package audio

import (
	"github.com/charmbracelet/log"
)

// Open returns a synthesizer speaker, or a silent clocked speaker when audio
// is muted or the output device is unavailable. Either way the cartridge sees
// the same sound lifetimes.
func Open(opts Options, mute bool, logger *log.Logger) Speaker {
	if mute {
		logger.Debug("audio muted, using silent speaker")
		return NewClockSpeaker()
	}
	b, err := NewBeepSpeaker(opts)
	if err != nil {
		logger.Warn("audio unavailable, using silent speaker", "error", err)
		return NewClockSpeaker()
	}
	logger.Debug("audio device opened", "sample_rate", opts.SampleRate)
	return b
}
