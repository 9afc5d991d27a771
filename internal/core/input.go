package core

// Button identifies a physical pad button.
type Button int

const (
	ButtonLeft  Button = iota // A, Left arrow
	ButtonRight               // D, Right arrow
	ButtonUp                  // W, Up arrow
	ButtonDown                // S, Down arrow
	ButtonB0                  // Space, Z - primary action (jump)
	ButtonB1                  // Enter, X - secondary action (confirm/restart)
	buttonCount
)

// String returns the cartridge-facing name of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonB0:
		return "b0"
	case ButtonB1:
		return "b1"
	default:
		return "unknown"
	}
}

// ButtonState is the view of one button during a single tick.
type ButtonState struct {
	pressed     bool
	justPressed bool
}

// Pressed reports whether the button is held this tick (level-triggered).
func (s ButtonState) Pressed() bool {
	return s.pressed
}

// JustPressed reports whether the button went from released to held on this
// tick (edge-triggered).
func (s ButtonState) JustPressed() bool {
	return s.justPressed
}

// Pad tracks button levels across ticks and derives rising edges.
//
// Terminals deliver key presses and auto-repeats but never releases, so a
// press keeps its button held for holdTicks ticks after the latest event.
// Hosts that do see releases call Release directly.
type Pad struct {
	holdTicks int
	hits      [buttonCount]bool
	remaining [buttonCount]int
	prev      [buttonCount]bool
	state     [buttonCount]ButtonState
}

// NewPad creates a pad whose buttons stay held for holdTicks ticks after the
// last press event. Values below 1 are raised to 1.
func NewPad(holdTicks int) *Pad {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &Pad{holdTicks: holdTicks}
}

// Press records a press (or auto-repeat) event for the next Latch.
func (p *Pad) Press(b Button) {
	if b < 0 || b >= buttonCount {
		return
	}
	p.hits[b] = true
}

// Release drops a button immediately.
func (p *Pad) Release(b Button) {
	if b < 0 || b >= buttonCount {
		return
	}
	p.hits[b] = false
	p.remaining[b] = 0
}

// Latch folds the events seen since the previous call into this tick's
// button states. Call exactly once per tick, before the frame runs.
func (p *Pad) Latch() {
	for b := range p.state {
		if p.hits[b] {
			p.remaining[b] = p.holdTicks
			p.hits[b] = false
		}
		held := p.remaining[b] > 0
		p.state[b] = ButtonState{
			pressed:     held,
			justPressed: held && !p.prev[b],
		}
		p.prev[b] = held
		if p.remaining[b] > 0 {
			p.remaining[b]--
		}
	}
}

// Button returns the latched state of a button for the current tick.
func (p *Pad) Button(b Button) ButtonState {
	if b < 0 || b >= buttonCount {
		return ButtonState{}
	}
	return p.state[b]
}

// Reset releases every button and forgets pending events.
func (p *Pad) Reset() {
	*p = Pad{holdTicks: p.holdTicks}
}
