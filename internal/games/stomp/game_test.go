package stomp

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-cartridge/internal/audio"
	"github.com/vovakirdan/tui-cartridge/internal/config"
	"github.com/vovakirdan/tui-cartridge/internal/console"
	"github.com/vovakirdan/tui-cartridge/internal/core"
)

const groundY = 25.0

// rig is a minimal host: a terminal display, a pad with a one-tick hold
// window and a silent clocked speaker. Texts and sounds are recorded.
type rig struct {
	g       *Game
	display *screenRecorder
	pad     *core.Pad
	speaker *speakerRecorder
}

// screenRecorder is a display that keeps every text the game adds.
type screenRecorder struct {
	*console.Display
	texts []*recordedText
}

type recordedText struct {
	console.Entity
	value   string
	opts    console.TextOptions
	removed bool
}

func (t *recordedText) Remove() {
	t.removed = true
	t.Entity.Remove()
}

func (s *screenRecorder) AddText(value string, opts console.TextOptions) console.Entity {
	t := &recordedText{Entity: s.Display.AddText(value, opts), value: value, opts: opts}
	s.texts = append(s.texts, t)
	return t
}

// shown returns the texts still on the display.
func (s *screenRecorder) shown() []*recordedText {
	var out []*recordedText
	for _, t := range s.texts {
		if !t.removed {
			out = append(out, t)
		}
	}
	return out
}

// speakerRecorder is a clocked speaker that keeps every cue it was asked to
// play.
type speakerRecorder struct {
	*audio.ClockSpeaker
	cues [][]console.Voice
}

func (s *speakerRecorder) Play(voices []console.Voice) console.Sound {
	s.cues = append(s.cues, voices)
	return s.ClockSpeaker.Play(voices)
}

func newRig(t *testing.T, seed int64) *rig {
	t.Helper()
	r := &rig{
		g:       NewWithConfig(config.DefaultStompConfig()),
		display: &screenRecorder{Display: console.NewDisplay(1, 1)},
		pad:     core.NewPad(1),
		speaker: &speakerRecorder{ClockSpeaker: audio.NewClockSpeaker()},
	}
	host := console.Host{
		Pads:     []console.Pad{r.pad},
		Screens:  []console.Screen{r.display},
		Speakers: []console.Speaker{r.speaker},
	}
	if err := r.g.Init(host, core.RuntimeConfig{TickRate: 60, Seed: seed}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return r
}

// step runs one tick the way the platform does: latch input, run the
// frame, advance audio.
func (r *rig) step(buttons ...core.Button) {
	for _, b := range buttons {
		r.pad.Press(b)
	}
	r.pad.Latch()
	r.g.Frame()
	r.speaker.Tick()
}

// clearEnemies removes every enemy without spawning a replacement.
func (r *rig) clearEnemies() {
	for _, e := range r.g.enemies {
		e.sprite.Remove()
	}
	r.g.enemies = nil
}

// placeEnemy adds an enemy at an exact position.
func (r *rig) placeEnemy(x, y, vx float64) *Enemy {
	e := &Enemy{
		X: x, Y: y, VX: vx, Alive: true,
		sprite: r.display.AddSprite(enemyBitmap, console.SpriteOptions{ColorIDs: enemyColors, X: x, Y: y}),
	}
	r.g.enemies = append(r.g.enemies, e)
	return e
}

func assertFreshSession(t *testing.T, r *rig) {
	t.Helper()
	g := r.g
	if g.score != 0 {
		t.Errorf("score = %d, expected 0", g.score)
	}
	if g.spawnTimer != 0 {
		t.Errorf("spawnTimer = %d, expected 0", g.spawnTimer)
	}
	if g.gameOver {
		t.Error("gameOver should be false")
	}
	if len(g.enemies) != 1 {
		t.Errorf("enemy count = %d, expected 1", len(g.enemies))
	}
	if g.player.X != 18 || g.player.Y != groundY || g.player.VY != 0 || !g.player.OnGround {
		t.Errorf("player = %+v, expected canonical start at (18, 25) on ground", g.player)
	}
	if g.result != nil || len(r.display.shown()) != 0 {
		t.Error("no score text should be shown")
	}
	// player + ground + one enemy
	if r.display.Count() != 3 {
		t.Errorf("display holds %d entities, expected 3", r.display.Count())
	}
}

func TestInitFreshSession(t *testing.T) {
	r := newRig(t, 1)
	assertFreshSession(t, r)

	_, _, w, h := r.display.ViewBox()
	if w != 40 || h != 30 {
		t.Errorf("view box = %gx%g, expected 40x30", w, h)
	}
	if r.g.ground.Y() != groundY+4 {
		t.Errorf("ground Y = %f, expected %f", r.g.ground.Y(), groundY+4)
	}
}

func TestInitMissingCapabilities(t *testing.T) {
	pad := core.NewPad(1)
	spk := audio.NewClockSpeaker()
	d := console.NewDisplay(40, 30)

	tests := []struct {
		name string
		host console.Host
		want error
	}{
		{"no screen", console.Host{Pads: []console.Pad{pad}, Speakers: []console.Speaker{spk}}, console.ErrNoScreen},
		{"no pad", console.Host{Screens: []console.Screen{d}, Speakers: []console.Speaker{spk}}, console.ErrNoPad},
		{"no speaker", console.Host{Pads: []console.Pad{pad}, Screens: []console.Screen{d}}, console.ErrNoSpeaker},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewWithConfig(config.DefaultStompConfig())
			err := g.Init(tc.host, core.DefaultConfig())
			if !errors.Is(err, tc.want) {
				t.Errorf("Init() error = %v, expected %v", err, tc.want)
			}
		})
	}
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultStompConfig()
	cfg.Enemies.MaxCount = 0
	g := NewWithConfig(cfg)
	host := console.Host{
		Pads:     []console.Pad{core.NewPad(1)},
		Screens:  []console.Screen{console.NewDisplay(40, 30)},
		Speakers: []console.Speaker{audio.NewClockSpeaker()},
	}
	if err := g.Init(host, core.DefaultConfig()); err == nil {
		t.Error("Init() should reject an invalid config")
	}
}

func TestSpawnEnemySides(t *testing.T) {
	r := newRig(t, 7)
	r.clearEnemies()

	left, right := 0, 0
	for i := 0; i < 200; i++ {
		r.g.spawnEnemy()
		e := r.g.enemies[len(r.g.enemies)-1]
		if e.Y != groundY+1 || !e.Alive {
			t.Fatalf("enemy = %+v, expected alive at y=%f", e, groundY+1)
		}
		switch e.X {
		case 0:
			left++
			if e.VX != 0.3 {
				t.Errorf("left spawn VX = %f, expected 0.3", e.VX)
			}
		case 37:
			right++
			if e.VX != -0.3 {
				t.Errorf("right spawn VX = %f, expected -0.3", e.VX)
			}
		default:
			t.Fatalf("enemy spawned at x=%f, expected 0 or 37", e.X)
		}
	}
	if left == 0 || right == 0 {
		t.Errorf("spawns should use both sides, got left=%d right=%d", left, right)
	}
}

func TestSpawnDeterminism(t *testing.T) {
	a := newRig(t, 12345)
	b := newRig(t, 12345)
	for i := 0; i < 20; i++ {
		a.g.spawnEnemy()
		b.g.spawnEnemy()
	}
	for i := range a.g.enemies {
		if a.g.enemies[i].X != b.g.enemies[i].X {
			t.Fatalf("enemy %d differs between runs with the same seed", i)
		}
	}
}

func TestRestartIdempotent(t *testing.T) {
	r := newRig(t, 3)
	r.g.score = 9
	r.g.spawnTimer = 50
	r.g.player.X = 3
	r.g.player.Y = 10
	r.g.player.VY = -1
	r.g.player.OnGround = false
	r.g.spawnEnemy()
	r.g.spawnEnemy()
	r.g.endGame()

	r.g.restart()
	r.g.restart()
	assertFreshSession(t, r)
}

func TestHorizontalMovement(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()

	r.step(core.ButtonLeft)
	if r.g.player.X != 17.5 {
		t.Errorf("X after left = %f, expected 17.5", r.g.player.X)
	}
	r.step(core.ButtonRight)
	r.step(core.ButtonRight)
	if r.g.player.X != 18.5 {
		t.Errorf("X after two rights = %f, expected 18.5", r.g.player.X)
	}

	// Both held: independent deltas cancel out
	r.step(core.ButtonLeft, core.ButtonRight)
	if r.g.player.X != 18.5 {
		t.Errorf("X with both held = %f, expected 18.5", r.g.player.X)
	}
	if r.g.player.sprite.X() != r.g.player.X {
		t.Error("player sprite should follow the player")
	}
}

func TestHorizontalBounds(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()
	r.g.cfg.Enemies.SpawnInterval = math.MaxInt

	for i := 0; i < 100; i++ {
		r.step(core.ButtonLeft)
	}
	if r.g.player.X != 0 {
		t.Errorf("X = %f, expected left bound 0", r.g.player.X)
	}
	for i := 0; i < 100; i++ {
		r.step(core.ButtonRight)
	}
	if r.g.player.X != 37 {
		t.Errorf("X = %f, expected right bound 37", r.g.player.X)
	}
}

func TestJumpIsEdgeTriggered(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()

	r.step(core.ButtonB0)
	p := r.g.player
	if p.OnGround {
		t.Fatal("player should leave the ground")
	}
	if math.Abs(p.VY-(-1.8+0.15)) > 1e-9 {
		t.Errorf("VY after jump = %f, expected %f", p.VY, -1.8+0.15)
	}
	if math.Abs(p.Y-(groundY-1.65)) > 1e-9 {
		t.Errorf("Y after jump = %f, expected %f", p.Y, groundY-1.65)
	}
	if r.speaker.Played() != 1 {
		t.Errorf("jump should play one sound, played %d", r.speaker.Played())
	}

	// Keep holding: no second jump, and no jump while airborne
	for i := 0; i < 5; i++ {
		r.pad.Press(core.ButtonB0)
		r.pad.Latch()
		r.g.Frame()
	}
	if r.speaker.Played() != 1 {
		t.Errorf("held button should not jump again, played %d", r.speaker.Played())
	}
}

func TestJumpLandsOnGround(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()

	r.step(core.ButtonB0)
	for i := 0; i < 60 && !r.g.player.OnGround; i++ {
		r.step()
		if r.g.player.Y > groundY {
			t.Fatalf("player sank below ground: y=%f", r.g.player.Y)
		}
	}
	p := r.g.player
	if !p.OnGround || p.Y != groundY || p.VY != 0 {
		t.Errorf("player = %+v, expected landed on ground", p)
	}
}

func TestEnemyReflectsAtEdges(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()
	r.g.player.X = 0 // out of the way on the far side
	e := r.placeEnemy(36.8, groundY+1, 0.3)

	r.step()
	if e.VX != -0.3 {
		t.Errorf("VX at right edge = %f, expected -0.3", e.VX)
	}
	if e.X > 37 {
		t.Errorf("X = %f, should stay within the right bound", e.X)
	}

	r.g.player.X = 37
	e.X = 0.1
	r.step()
	if e.VX != 0.3 {
		t.Errorf("VX at left edge = %f, expected 0.3", e.VX)
	}
	if e.X < 0 {
		t.Errorf("X = %f, should stay within the left bound", e.X)
	}
}

func TestStompKillsEnemy(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()
	before := r.display.Count()

	r.g.player.X = 18
	r.g.player.Y = 20
	r.g.player.VY = 0.5
	r.g.player.OnGround = false
	r.placeEnemy(19, 25, 0.3)

	r.step()

	if len(r.g.enemies) != 0 {
		t.Errorf("enemy count = %d, expected 0", len(r.g.enemies))
	}
	if r.g.score != 1 {
		t.Errorf("score = %d, expected 1", r.g.score)
	}
	if want := -1.26; math.Abs(r.g.player.VY-want) > 1e-9 {
		t.Errorf("VY after stomp = %f, expected %f", r.g.player.VY, want)
	}
	if r.display.Count() != before {
		t.Errorf("enemy sprite should be removed, display holds %d, expected %d", r.display.Count(), before)
	}
	if r.g.gameOver {
		t.Error("stomp should not end the game")
	}
	if r.g.sfx == nil || r.g.sfx.Ended() {
		t.Error("stomp sound should be playing")
	}
}

func TestSideHitEndsGame(t *testing.T) {
	for _, vy := range []float64{-0.15, 0} {
		r := newRig(t, 1)
		r.clearEnemies()

		r.g.player.X = 19
		r.g.player.Y = 24
		r.g.player.VY = vy
		r.g.player.OnGround = false
		r.placeEnemy(19, 24, 0.3)

		r.step()

		if !r.g.gameOver {
			t.Fatalf("vy=%f: side hit should end the game", vy)
		}
		if r.g.score != 0 {
			t.Errorf("vy=%f: score = %d, expected 0", vy, r.g.score)
		}
		if texts := r.display.shown(); len(texts) != 1 || texts[0].value != "0" {
			t.Errorf("vy=%f: %d score texts shown, expected one reading 0", vy, len(texts))
		}
	}
}

func TestSideHitStopsEnemyLoop(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()

	first := r.placeEnemy(5, groundY+1, 0) // visited last
	r.placeEnemy(18, groundY+1, 0)         // visited first, lethal
	r.step()

	if !r.g.gameOver {
		t.Fatal("expected game over")
	}
	if first.X != 5 {
		t.Error("enemies after the lethal one should not move that tick")
	}
	if r.g.spawnTimer != 0 {
		t.Errorf("spawnTimer = %d, expected 0 after early return", r.g.spawnTimer)
	}
}

func TestAmbiguousContactDoesNothing(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()

	// Rising past an enemy a few cells below: too high for a side hit and
	// not falling, so no stomp either.
	r.g.player.X = 18
	r.g.player.Y = 20
	r.g.player.VY = -1 // y becomes 19.15 after gravity
	r.g.player.OnGround = false
	r.placeEnemy(18, 22.5, 0)

	r.step()
	if r.g.gameOver || r.g.score != 0 || len(r.g.enemies) != 1 {
		t.Errorf("contact outside both bands should have no effect: over=%v score=%d enemies=%d",
			r.g.gameOver, r.g.score, len(r.g.enemies))
	}
}

func TestSpawnCadence(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()

	for i := 0; i < 120; i++ {
		r.step()
	}
	if len(r.g.enemies) != 0 {
		t.Fatalf("no enemy should spawn within 120 frames, got %d", len(r.g.enemies))
	}
	if r.g.spawnTimer != 120 {
		t.Errorf("spawnTimer = %d, expected 120", r.g.spawnTimer)
	}

	r.step()
	if len(r.g.enemies) != 1 {
		t.Errorf("enemy count at frame 121 = %d, expected 1", len(r.g.enemies))
	}
	if r.g.spawnTimer != 0 {
		t.Errorf("spawnTimer = %d, expected reset to 0", r.g.spawnTimer)
	}
}

func TestEnemyCap(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()
	for i := 0; i < 5; i++ {
		r.placeEnemy(float64(1+i), groundY+1, 0) // parked far from the player
	}

	for i := 0; i < 400; i++ {
		r.step()
		if len(r.g.enemies) > 5 {
			t.Fatalf("enemy count = %d, expected at most 5", len(r.g.enemies))
		}
	}
	if r.g.spawnTimer != 400 {
		t.Errorf("spawnTimer = %d, expected to keep counting while capped", r.g.spawnTimer)
	}
}

func TestRestartGatedOnJingle(t *testing.T) {
	r := newRig(t, 1)
	r.clearEnemies()
	r.placeEnemy(18, groundY+1, 0)
	r.step()
	if !r.g.gameOver {
		t.Fatal("expected game over")
	}

	// Jingle is 5 notes x 8 ticks; one tick already elapsed.
	r.step(core.ButtonB1)
	if !r.g.gameOver {
		t.Fatal("restart must wait for the jingle to finish")
	}

	for i := 0; i < 40 && !r.g.sfx.Ended(); i++ {
		r.step()
	}
	if !r.g.sfx.Ended() {
		t.Fatal("jingle should have ended")
	}
	if !r.g.gameOver {
		t.Fatal("game over should persist without confirm")
	}

	r.step(core.ButtonB1)
	if r.g.gameOver {
		t.Fatal("confirm after the jingle should restart")
	}
	assertFreshSession(t, r)
}

func TestGameOverScorePosition(t *testing.T) {
	tests := []struct {
		score int
		text  string
		x     float64
	}{
		{0, "0", 16},
		{7, "7", 16},
		{12, "12", 12},
		{345, "345", 8},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			r := newRig(t, 1)
			r.g.score = tc.score
			r.g.endGame()

			texts := r.display.shown()
			if len(texts) != 1 {
				t.Fatalf("%d texts shown, expected 1", len(texts))
			}
			got := texts[0]
			if got.value != tc.text {
				t.Errorf("text = %q, expected %q", got.value, tc.text)
			}
			if got.opts.X != tc.x || got.opts.Y != 12 {
				t.Errorf("text at (%g, %g), expected (%g, 12)", got.opts.X, got.opts.Y, tc.x)
			}
		})
	}
}

func TestSoundCues(t *testing.T) {
	voice := func(notes ...console.Note) []console.Voice {
		return []console.Voice{notes}
	}
	jump := voice(
		console.Note{Number: 7, Duration: 2},
		console.Note{Number: 12, Duration: 2},
	)
	stomp := voice(
		console.Note{Number: 12, Duration: 2},
		console.Note{Number: 16, Duration: 2},
		console.Note{Number: 19, Duration: 4},
	)
	jingle := voice(
		console.Note{Number: 12, Duration: 8},
		console.Note{Number: 10, Duration: 8},
		console.Note{Number: 7, Duration: 8},
		console.Note{Number: 4, Duration: 8},
		console.Note{Number: 0, Duration: 8},
	)

	tests := []struct {
		name     string
		play     func(r *rig)
		expected []console.Voice
	}{
		{"jump", func(r *rig) { r.step(core.ButtonB0) }, jump},
		{"stomp", func(r *rig) {
			r.g.player.Y = 20
			r.g.player.VY = 0.5
			r.g.player.OnGround = false
			r.placeEnemy(19, 25, 0.3)
			r.step()
		}, stomp},
		{"game over", func(r *rig) {
			r.placeEnemy(18, groundY+1, 0)
			r.step()
		}, jingle},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, 1)
			r.clearEnemies()
			tc.play(r)

			if len(r.speaker.cues) != 1 {
				t.Fatalf("played %d cues, expected 1", len(r.speaker.cues))
			}
			if got := r.speaker.cues[0]; !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("cue = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRestartWithoutAnySound(t *testing.T) {
	r := newRig(t, 1)
	r.g.gameOver = true // never played a sound
	r.step(core.ButtonB1)
	if r.g.gameOver {
		t.Error("with no sound ever played, confirm should restart")
	}
}

func TestScoreFrozenWhileGameOver(t *testing.T) {
	r := newRig(t, 1)
	r.g.score = 4
	r.g.endGame()
	for i := 0; i < 30; i++ {
		r.step(core.ButtonLeft, core.ButtonB0)
	}
	if r.g.score != 4 {
		t.Errorf("score = %d, expected frozen at 4", r.g.score)
	}
	if r.g.player.X != 18 {
		t.Error("player should not move during game over")
	}
}

func TestRandomPlayStaysInBounds(t *testing.T) {
	r := newRig(t, 99)
	input := rand.New(rand.NewSource(42))
	buttons := []core.Button{core.ButtonLeft, core.ButtonRight, core.ButtonB0, core.ButtonB1}

	lastScore := 0
	for frame := 0; frame < 20000; frame++ {
		var pressed []core.Button
		for _, b := range buttons {
			if input.Intn(4) == 0 {
				pressed = append(pressed, b)
			}
		}
		wasOver := r.g.gameOver
		r.step(pressed...)
		g := r.g

		if g.player.Y > groundY {
			t.Fatalf("frame %d: player y=%f below ground", frame, g.player.Y)
		}
		if g.player.Y == groundY && (g.player.VY != 0 || !g.player.OnGround) {
			t.Fatalf("frame %d: on ground with vy=%f onGround=%v", frame, g.player.VY, g.player.OnGround)
		}
		if g.player.X < 0 || g.player.X > 37 {
			t.Fatalf("frame %d: player x=%f out of bounds", frame, g.player.X)
		}
		for _, e := range g.enemies {
			if e.X < 0 || e.X > 37 {
				t.Fatalf("frame %d: enemy x=%f out of bounds", frame, e.X)
			}
		}
		if len(g.enemies) > 5 {
			t.Fatalf("frame %d: %d enemies, cap is 5", frame, len(g.enemies))
		}

		restarted := wasOver && !g.gameOver
		switch {
		case restarted:
			if g.score != 0 {
				t.Fatalf("frame %d: restart left score %d", frame, g.score)
			}
		case wasOver:
			if g.score != lastScore {
				t.Fatalf("frame %d: score changed during game over", frame)
			}
		default:
			if g.score < lastScore {
				t.Fatalf("frame %d: score decreased from %d to %d", frame, lastScore, g.score)
			}
		}
		lastScore = g.score
	}
}

func TestStateReflectsSession(t *testing.T) {
	r := newRig(t, 1)
	r.g.score = 3
	st := r.g.State()
	if st.Score != 3 || st.GameOver {
		t.Errorf("State() = %+v, expected score 3 playing", st)
	}
	r.g.endGame()
	if !r.g.State().GameOver {
		t.Error("State() should report game over")
	}
	if texts := r.display.shown(); len(texts) != 1 || texts[0].value != "3" {
		t.Errorf("%d score texts shown, expected one reading 3", len(texts))
	}
	if r.g.result == nil {
		t.Fatal("result should be tracked")
	}
}
