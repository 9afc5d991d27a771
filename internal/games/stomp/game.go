// Package stomp implements a single-screen platformer: walk, jump on the
// walkers to score, touch one from the side and it is game over.
package stomp

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/vovakirdan/tui-cartridge/internal/config"
	"github.com/vovakirdan/tui-cartridge/internal/console"
	"github.com/vovakirdan/tui-cartridge/internal/core"
	"github.com/vovakirdan/tui-cartridge/internal/registry"
)

// Collision bands, in logical cells.
const (
	hitRangeX     = 3.0  // |dx| below this overlaps horizontally
	stompMinAbove = -5.0 // dy must be above this for a stomp...
	stompMaxAbove = -1.0 // ...and below this
	sideHitY      = 2.0  // |dy| below this is a side hit

	resultY = 12.0 // Row of the game-over score
)

// Game implements the Stomp cartridge.
type Game struct {
	cfg       config.StompConfig
	hasConfig bool
	rng       *rand.Rand

	pad     console.Pad
	screen  console.Screen
	speaker console.Speaker

	player  Player
	ground  console.Sprite
	enemies []*Enemy

	score      int
	spawnTimer int
	gameOver   bool

	sfx    console.Sound  // Most recently started sound, nil before the first
	result console.Entity // Game-over score text, nil while playing
}

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// New creates a Stomp game that loads its configuration during Init.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a Stomp game with a fixed configuration.
func NewWithConfig(cfg config.StompConfig) *Game {
	return &Game{cfg: cfg, hasConfig: true}
}

// ID returns the unique identifier for this cartridge.
func (g *Game) ID() string {
	return "stomp"
}

// Title returns the display name for this cartridge.
func (g *Game) Title() string {
	return "Stomp"
}

// Init wires the host capabilities, builds the static sprites and starts a
// fresh session.
func (g *Game) Init(host console.Host, rt core.RuntimeConfig) error {
	if err := host.Validate(); err != nil {
		return fmt.Errorf("stomp: %w", err)
	}

	if !g.hasConfig {
		cfg, err := config.LoadStomp(configPath)
		if err != nil {
			return fmt.Errorf("stomp: %w", err)
		}
		config.ApplyStompPreset(&cfg, difficultyPreset)
		g.cfg = cfg
	}
	if err := g.cfg.Validate(); err != nil {
		return fmt.Errorf("stomp: %w", err)
	}

	g.pad = host.Pads[0]
	g.screen = host.Screens[0]
	g.speaker = host.Speakers[0]
	g.rng = rand.New(rand.NewSource(rt.Seed))

	g.screen.SetViewBox(0, 0, g.cfg.Screen.Width, g.cfg.Screen.Height)

	g.player.sprite = g.screen.AddSprite(playerBitmap, console.SpriteOptions{
		ColorIDs: playerColors,
	})
	g.ground = g.screen.AddSprite(groundBitmap(int(g.cfg.Screen.Width)), console.SpriteOptions{
		ColorIDs: groundColors,
		X:        0,
		Y:        g.cfg.Physics.GroundY + groundDrop,
	})

	g.enemies = nil
	g.restart()
	return nil
}

// restart returns to the canonical fresh-session state.
func (g *Game) restart() {
	g.gameOver = false
	g.score = 0
	g.spawnTimer = 0

	g.player.X = g.cfg.Player.StartX
	g.player.Y = g.cfg.Physics.GroundY
	g.player.VY = 0
	g.player.OnGround = true
	g.player.sync()

	for _, e := range g.enemies {
		e.sprite.Remove()
	}
	g.enemies = g.enemies[:0]

	g.spawnEnemy()

	console.Remove(g.result)
	g.result = nil
}

// spawnEnemy adds a walker at a random edge, heading inward.
func (g *Game) spawnEnemy() {
	x, vx := 0.0, g.cfg.Enemies.Speed
	if g.rng.Float64() >= 0.5 {
		x, vx = g.cfg.Enemies.MaxX, -g.cfg.Enemies.Speed
	}
	y := g.cfg.Physics.GroundY + 1

	e := &Enemy{
		X:     x,
		Y:     y,
		VX:    vx,
		Alive: true,
		sprite: g.screen.AddSprite(enemyBitmap, console.SpriteOptions{
			ColorIDs: enemyColors,
			X:        x,
			Y:        y,
		}),
	}
	g.enemies = append(g.enemies, e)
}

// endGame freezes the session and shows the score.
func (g *Game) endGame() {
	g.gameOver = true
	g.play(gameOverJingle)

	digits := strconv.Itoa(g.score)
	g.result = g.screen.AddText(digits, console.TextOptions{
		X: g.cfg.Screen.Width/2 - float64(console.TextAdvance*len(digits)),
		Y: resultY,
	})
}

// play replaces whatever sound is running.
func (g *Game) play(voices []console.Voice) {
	console.Stop(g.sfx)
	g.sfx = g.speaker.Play(voices)
}

// Frame advances the game by one tick.
func (g *Game) Frame() {
	if g.gameOver {
		if g.pad.Button(core.ButtonB1).JustPressed() && console.Ended(g.sfx) {
			g.restart()
		}
		return
	}

	g.movePlayer()
	if g.updateEnemies() {
		return
	}

	g.spawnTimer++
	if g.spawnTimer > g.cfg.Enemies.SpawnInterval && len(g.enemies) < g.cfg.Enemies.MaxCount {
		g.spawnEnemy()
		g.spawnTimer = 0
	}
}

// movePlayer applies input, gravity and the ground clamp.
func (g *Game) movePlayer() {
	p := &g.player
	phys := g.cfg.Physics

	// Left and right are independent; holding both cancels out.
	if g.pad.Button(core.ButtonLeft).Pressed() && p.X > 0 {
		p.X -= phys.MoveSpeed
	}
	if g.pad.Button(core.ButtonRight).Pressed() && p.X < g.cfg.Player.MaxX {
		p.X += phys.MoveSpeed
	}
	p.X = core.ClampF(p.X, 0, g.cfg.Player.MaxX)

	if g.pad.Button(core.ButtonB0).JustPressed() && p.OnGround {
		p.VY = phys.JumpPower
		p.OnGround = false
		g.play(jumpSound)
	}

	p.VY += phys.Gravity
	p.Y += p.VY

	if p.Y >= phys.GroundY {
		p.Y = phys.GroundY
		p.VY = 0
		p.OnGround = true
	}
	p.sync()
}

// updateEnemies moves every enemy and resolves contact with the player,
// newest first so removals never skip an element. Returns true if the
// player was hit and the session ended.
func (g *Game) updateEnemies() bool {
	p := &g.player
	maxX := g.cfg.Enemies.MaxX

	for i := len(g.enemies) - 1; i >= 0; i-- {
		e := g.enemies[i]
		if !e.Alive {
			continue
		}

		e.X += e.VX
		if e.X <= 0 || e.X >= maxX {
			e.VX = -e.VX
			e.X = core.ClampF(e.X, 0, maxX)
		}
		e.sync()

		dx := math.Abs(p.X - e.X)
		dy := p.Y - e.Y
		if dx >= hitRangeX {
			continue
		}

		switch {
		case p.VY > 0 && dy < stompMaxAbove && dy > stompMinAbove:
			e.Alive = false
			e.sprite.Remove()
			g.enemies = append(g.enemies[:i], g.enemies[i+1:]...)
			g.score++
			p.VY = g.cfg.Physics.JumpPower * g.cfg.Physics.StompBounce
			g.play(stompSound)
		case math.Abs(dy) < sideHitY:
			g.endGame()
			return true
		}
	}
	return false
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
	}
}

// Register the cartridge with the registry
func init() {
	registry.Register("stomp", func() registry.Cartridge {
		return New()
	})
}
