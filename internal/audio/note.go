// Package audio implements console speakers: a silent clocked speaker used
// for tests and remote sessions, and a synthesizer backed by gopxl/beep.
package audio

import "math"

// BaseMIDI is the MIDI note played for cartridge note number 0 (middle C).
const BaseMIDI = 60

// NoteFreq returns the frequency in Hz for a MIDI note number, A4 = 440Hz,
// equal temperament. Returns 0 outside 0..127.
func NoteFreq(midi int) float64 {
	if midi < 0 || midi >= 128 {
		return 0
	}
	return 440.0 * math.Pow(2, (float64(midi)-69.0)/12.0)
}

// CartridgeFreq returns the frequency for a cartridge note number.
func CartridgeFreq(number int) float64 {
	return NoteFreq(BaseMIDI + number)
}
