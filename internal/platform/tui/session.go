package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cartridge/internal/audio"
	"github.com/vovakirdan/tui-cartridge/internal/console"
	"github.com/vovakirdan/tui-cartridge/internal/core"
	"github.com/vovakirdan/tui-cartridge/internal/registry"
	"github.com/vovakirdan/tui-cartridge/internal/storage"
)

// DefaultKeyHold is how long a key stays down after its last press event.
// Terminals only report presses, so the hold has to outlast the delay before
// auto-repeat starts or a held key drops out once and jump fires twice.
const DefaultKeyHold = 500 * time.Millisecond

const gameOverBanner = "GAME OVER - enter to retry"

// SessionOptions configures a cartridge session.
type SessionOptions struct {
	Runtime    core.RuntimeConfig
	Speaker    audio.Speaker  // Nil selects a silent clocked speaker
	Store      *storage.Store // Nil disables score saving
	Difficulty string         // Recorded with saved scores
	KeyHold    time.Duration  // Zero uses DefaultKeyHold
	Logger     *log.Logger
}

// Session runs one cartridge against a terminal-backed host: a display scaled
// onto a character screen, an emulated pad and a speaker. It is driven one
// tick at a time and is not safe for concurrent use.
type Session struct {
	cart    registry.Cartridge
	display *console.Display
	pad     *core.Pad
	speaker audio.Speaker
	screen  *core.Screen
	store   *storage.Store
	logger  *log.Logger

	rt         core.RuntimeConfig
	difficulty string

	state      core.GameState
	frames     int // Ticks in the current game
	scoreSaved bool
	games      int
	best       int
	lastRun    string
}

// NewSession initializes the cartridge against a fresh host.
func NewSession(cart registry.Cartridge, opts SessionOptions) (*Session, error) {
	rt := opts.Runtime
	if rt.TickRate <= 0 {
		rt.TickRate = core.DefaultConfig().TickRate
	}
	if rt.ScreenW <= 0 || rt.ScreenH <= 0 {
		def := core.DefaultConfig()
		rt.ScreenW, rt.ScreenH = def.ScreenW, def.ScreenH
	}
	// Use time-based seed if not specified
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	spk := opts.Speaker
	if spk == nil {
		spk = audio.NewClockSpeaker()
	}

	keyHold := opts.KeyHold
	if keyHold <= 0 {
		keyHold = DefaultKeyHold
	}
	hold := int(keyHold * time.Duration(rt.TickRate) / time.Second)
	s := &Session{
		cart:       cart,
		display:    console.NewDisplay(float64(rt.ScreenW), float64(rt.ScreenH)),
		pad:        core.NewPad(hold),
		speaker:    spk,
		screen:     core.NewScreen(rt.ScreenW, rt.ScreenH),
		store:      opts.Store,
		logger:     logger,
		rt:         rt,
		difficulty: opts.Difficulty,
	}

	host := console.Host{
		Pads:     []console.Pad{s.pad},
		Screens:  []console.Screen{s.display},
		Speakers: []console.Speaker{s.speaker},
	}
	if err := cart.Init(host, rt); err != nil {
		return nil, fmt.Errorf("tui: cannot start %s: %w", cart.ID(), err)
	}
	s.state = cart.State()
	_, _, viewW, viewH := s.display.ViewBox()

	if s.store != nil {
		best, err := s.store.HighScore(cart.ID())
		if err != nil {
			logger.Warn("could not load high score", "game", cart.ID(), "error", err)
		}
		s.best = best
	}

	logger.Debug("session started", "game", cart.ID(), "seed", rt.Seed,
		"hold_ticks", hold, "view_w", viewW, "view_h", viewH)
	return s, nil
}

// Press records a button event for the next tick. Walking one way drops the
// other direction at once; otherwise its hold would cancel the new direction.
func (s *Session) Press(b core.Button) {
	switch b {
	case core.ButtonLeft:
		s.pad.Release(core.ButtonRight)
	case core.ButtonRight:
		s.pad.Release(core.ButtonLeft)
	}
	s.pad.Press(b)
}

// ReleaseAll drops every held button, so nothing stays down across a pause.
func (s *Session) ReleaseAll() {
	s.pad.Reset()
}

// Step runs one tick: latch input, run the cartridge frame, advance audio
// and save the score once per game over.
func (s *Session) Step() {
	s.pad.Latch()
	s.cart.Frame()
	s.speaker.Tick()

	prev := s.state
	s.state = s.cart.State()

	switch {
	case prev.GameOver && !s.state.GameOver:
		s.frames = 0
		s.scoreSaved = false
		s.logger.Debug("game restarted", "game", s.cart.ID())
	case s.state.GameOver && !s.scoreSaved:
		s.finishGame()
	case !s.state.GameOver:
		s.frames++
	}
	s.best = max(s.best, s.state.Score)
}

// finishGame records the end of a game.
func (s *Session) finishGame() {
	s.scoreSaved = true
	s.games++
	s.logger.Info("game over", "game", s.cart.ID(), "score", s.state.Score,
		"frames", s.frames, "entities", s.display.Count())

	if s.store == nil || s.state.Score <= 0 {
		return
	}
	entry, err := s.store.SaveScore(storage.ScoreEntry{
		GameID:     s.cart.ID(),
		Score:      s.state.Score,
		Seed:       s.rt.Seed,
		Difficulty: s.difficulty,
		Frames:     s.frames,
	})
	if err != nil {
		s.logger.Error("could not save score", "error", err)
		return
	}
	s.lastRun = entry.RunID
}

// Resize changes the character screen. The cartridge keeps running; the
// display rescales its view box onto the new size.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.rt.ScreenW = width
	s.rt.ScreenH = height
	s.screen.Resize(width, height)
}

// Render draws the current frame with the HUD on top.
func (s *Session) Render() *core.Screen {
	s.screen.Clear()
	s.display.Render(s.screen)

	score := "SCORE " + strconv.Itoa(s.state.Score)
	best := "BEST " + strconv.Itoa(s.best)
	s.screen.DrawTextColor(1, 0, score, core.ColorBrightWhite)
	s.screen.DrawTextColor(s.screen.Width()-len(best)-1, 0, best, core.ColorBrightYellow)
	if s.state.GameOver {
		s.drawBanner(gameOverBanner)
	}
	return s.screen
}

// drawBanner frames msg in a box across the bottom three rows.
func (s *Session) drawBanner(msg string) {
	w := len([]rune(msg)) + 4
	panel := core.NewRect((s.screen.Width()-w)/2, s.screen.Height()-3, w, 3)
	s.screen.DrawRect(panel, ' ', core.ColorDefault)
	s.screen.DrawBox(panel)
	s.screen.DrawTextCentered(panel.Y+1, msg)
}

// SaveScreenshot writes the current frame as plain text to dir, or to
// ~/.arcade/screenshots when dir is empty. Returns the file path.
func (s *Session) SaveScreenshot(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: cannot find home directory: %w", err)
		}
		dir = filepath.Join(home, ".arcade", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create %s: %w", dir, err)
	}

	timestamp := time.Now().Format("20060102_150405.000")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", s.cart.ID(), timestamp))
	if err := os.WriteFile(path, []byte(s.Render().String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

// Close releases the speaker and drops every display entity.
func (s *Session) Close() {
	s.speaker.Close()
	s.display.Clear()
}

// State returns the cartridge state as of the last tick.
func (s *Session) State() core.GameState { return s.state }

// Cartridge returns the running cartridge.
func (s *Session) Cartridge() registry.Cartridge { return s.cart }

// Games returns how many games have ended during the session.
func (s *Session) Games() int { return s.games }

// Best returns the best score known to the session, stored or live.
func (s *Session) Best() int { return s.best }

// LastRun returns the run ID of the most recently saved score.
func (s *Session) LastRun() string { return s.lastRun }
