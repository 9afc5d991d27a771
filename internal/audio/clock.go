package audio

import (
	"sync/atomic"

	"github.com/vovakirdan/tui-cartridge/internal/console"
)

// ClockSpeaker plays nothing but keeps time: a sound ends once as many ticks
// have passed as its longest voice lasts. The host calls Tick once per frame.
type ClockSpeaker struct {
	active []*clockSound
	played int
}

// NewClockSpeaker creates a silent speaker.
func NewClockSpeaker() *ClockSpeaker {
	return &ClockSpeaker{}
}

// Play starts a silent sound lasting as long as the longest voice.
func (c *ClockSpeaker) Play(voices []console.Voice) console.Sound {
	longest := 0
	for _, v := range voices {
		longest = max(longest, v.Ticks())
	}
	s := &clockSound{remaining: longest}
	if longest == 0 {
		s.ended.Store(true)
	} else {
		c.active = append(c.active, s)
	}
	c.played++
	return s
}

// Tick advances every active sound by one frame.
func (c *ClockSpeaker) Tick() {
	live := c.active[:0]
	for _, s := range c.active {
		if s.ended.Load() {
			continue
		}
		s.remaining--
		if s.remaining <= 0 {
			s.ended.Store(true)
			continue
		}
		live = append(live, s)
	}
	clear(c.active[len(live):])
	c.active = live
}

// Played returns how many sounds have been started.
func (c *ClockSpeaker) Played() int {
	return c.played
}

// Close stops every active sound.
func (c *ClockSpeaker) Close() {
	for _, s := range c.active {
		s.Stop()
	}
	c.active = nil
}

type clockSound struct {
	remaining int
	ended     atomic.Bool
}

func (s *clockSound) Stop() {
	s.ended.Store(true)
}

func (s *clockSound) Ended() bool {
	return s.ended.Load()
}
