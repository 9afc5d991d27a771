package stomp

import "github.com/vovakirdan/tui-cartridge/internal/console"

// Sprite bitmaps. Values index the sprite's color IDs; 0 is transparent.
var (
	// Cap, face, then two rows of overalls.
	playerBitmap = console.Bitmap{
		{0, 1, 0},
		{0, 2, 0},
		{0, 3, 0},
		{0, 3, 0},
	}
	playerColors = []console.ColorID{console.Transparent, 1, 2, 4}

	enemyBitmap = console.Bitmap{
		{1, 1, 1},
		{0, 1, 0},
	}
	enemyColors = []console.ColorID{console.Transparent, 8}

	groundColors = []console.ColorID{
		console.Transparent, console.Transparent, console.Transparent,
		console.Transparent, console.Transparent, 6,
	}
)

const (
	groundRows  = 2
	groundValue = 5
	groundDrop  = 4 // Ground strip sits this far below GroundY
)

// groundBitmap builds a strip of the given width.
func groundBitmap(width int) console.Bitmap {
	bm := make(console.Bitmap, groundRows)
	for y := range bm {
		row := make([]int, width)
		for x := range row {
			row[x] = groundValue
		}
		bm[y] = row
	}
	return bm
}

// Player is the controllable character. Y grows downward; negative VY is up.
type Player struct {
	X, Y     float64
	VY       float64
	OnGround bool
	sprite   console.Sprite
}

// sync moves the sprite to the logical position.
func (p *Player) sync() {
	p.sprite.SetPosition(p.X, p.Y)
}

// Enemy walks along the ground and turns around at the screen edges.
type Enemy struct {
	X, Y   float64
	VX     float64
	Alive  bool
	sprite console.Sprite
}

func (e *Enemy) sync() {
	e.sprite.SetPosition(e.X, e.Y)
}

// Sound cues. Durations are in ticks.
var (
	jumpSound = []console.Voice{{
		{Number: 7, Duration: 2},
		{Number: 12, Duration: 2},
	}}
	stompSound = []console.Voice{{
		{Number: 12, Duration: 2},
		{Number: 16, Duration: 2},
		{Number: 19, Duration: 4},
	}}
	gameOverJingle = []console.Voice{{
		{Number: 12, Duration: 8},
		{Number: 10, Duration: 8},
		{Number: 7, Duration: 8},
		{Number: 4, Duration: 8},
		{Number: 0, Duration: 8},
	}}
)
