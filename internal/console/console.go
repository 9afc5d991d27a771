// Package console defines the capabilities a host hands to a cartridge:
// pads for input, screens for sprites and text, and speakers for note
// sequences. Cartridges only see these interfaces; the platform decides
// whether they end up in a terminal, over SSH, or in a test.
package console

import (
	"errors"

	"github.com/vovakirdan/tui-cartridge/internal/core"
)

// Errors returned when a host lacks a capability a cartridge needs.
var (
	ErrNoScreen  = errors.New("console: no screen attached")
	ErrNoPad     = errors.New("console: no pad attached")
	ErrNoSpeaker = errors.New("console: no speaker attached")
)

// Pad exposes per-tick button states.
type Pad interface {
	Button(b core.Button) core.ButtonState
}

// Entity is anything placed on a screen that can be taken off again.
type Entity interface {
	Remove()
}

// Sprite is a positionable bitmap on a screen.
type Sprite interface {
	Entity
	X() float64
	Y() float64
	SetPosition(x, y float64)
}

// ColorID indexes the console palette. Transparent pixels are not drawn.
type ColorID int

// Transparent marks a bitmap value that leaves the cell underneath visible.
const Transparent ColorID = -1

// Bitmap is a row-major grid of indices into a sprite's ColorIDs.
type Bitmap [][]int

// SpriteOptions configures a new sprite.
type SpriteOptions struct {
	ColorIDs []ColorID // Bitmap value -> palette entry
	X, Y     float64   // Initial position in view box units
}

// TextOptions configures a new text entity.
type TextOptions struct {
	X, Y  float64
	Color ColorID
}

// Screen is a sprite/text surface with a logical coordinate space.
type Screen interface {
	SetViewBox(x, y, w, h float64)
	AddSprite(bitmap Bitmap, opts SpriteOptions) Sprite
	AddText(value string, opts TextOptions) Entity
}

// Note is a single event of a voice. Duration is measured in ticks.
type Note struct {
	Number   int
	Duration int
}

// Voice is an ordered note sequence.
type Voice []Note

// Ticks returns the total length of the voice in ticks.
func (v Voice) Ticks() int {
	total := 0
	for _, n := range v {
		if n.Duration > 0 {
			total += n.Duration
		}
	}
	return total
}

// Sound is a handle to a playing sequence.
type Sound interface {
	Stop()
	Ended() bool
}

// Speaker plays note sequences, one voice per channel.
type Speaker interface {
	Play(voices []Voice) Sound
}

// Host bundles the capabilities attached to a running cartridge.
type Host struct {
	Pads     []Pad
	Screens  []Screen
	Speakers []Speaker
}

// Validate reports the first missing capability. Cartridges use index 0 of
// each list.
func (h Host) Validate() error {
	if len(h.Screens) == 0 || h.Screens[0] == nil {
		return ErrNoScreen
	}
	if len(h.Pads) == 0 || h.Pads[0] == nil {
		return ErrNoPad
	}
	if len(h.Speakers) == 0 || h.Speakers[0] == nil {
		return ErrNoSpeaker
	}
	return nil
}

// Stop stops s if there is one.
func Stop(s Sound) {
	if s != nil {
		s.Stop()
	}
}

// Ended reports whether s has finished. A missing sound counts as finished.
func Ended(s Sound) bool {
	return s == nil || s.Ended()
}

// Remove takes e off its screen if there is one.
func Remove(e Entity) {
	if e != nil {
		e.Remove()
	}
}
