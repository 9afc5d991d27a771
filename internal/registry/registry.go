// Package registry provides a global registry for cartridge factories.
// Cartridges register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-cartridge/internal/console"
	"github.com/vovakirdan/tui-cartridge/internal/core"
)

// Cartridge is the interface every game must implement.
// Cartridges contain pure logic and talk to the outside world only through
// the capabilities in console.Host. The platform handles timing, input
// polling and rendering.
type Cartridge interface {
	// ID returns a unique identifier (e.g., "stomp").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Init wires the host capabilities and builds the initial scene.
	// The RuntimeConfig provides tick rate and RNG seed.
	// Called once; returns an error if a required capability is missing.
	Init(host console.Host, rt core.RuntimeConfig) error

	// Frame advances the simulation by one fixed tick.
	Frame()

	// State returns the current score and game-over flag.
	State() core.GameState
}

// GameInfo contains metadata about a registered cartridge.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new cartridge instance.
type Factory func() Cartridge

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a cartridge factory to the registry.
// Typically called from a cartridge's init() function.
// Panics if a cartridge with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: cartridge %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered cartridges, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new cartridge by its ID.
func Create(id string) (Cartridge, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown cartridge %q", id)
	}

	return f(), nil
}

// Exists checks if a cartridge with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
