package registry

import (
	"testing"

	"github.com/vovakirdan/tui-cartridge/internal/console"
	"github.com/vovakirdan/tui-cartridge/internal/core"
)

type stubCartridge struct{ id string }

func (s stubCartridge) ID() string                                  { return s.id }
func (s stubCartridge) Title() string                               { return "Stub " + s.id }
func (s stubCartridge) Init(console.Host, core.RuntimeConfig) error { return nil }
func (s stubCartridge) Frame()                                      {}
func (s stubCartridge) State() core.GameState                       { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub-a", func() Cartridge { return stubCartridge{id: "stub-a"} })
	Register("stub-b", func() Cartridge { return stubCartridge{id: "stub-b"} })

	if !Exists("stub-a") {
		t.Error("stub-a should be registered")
	}
	if Exists("missing") {
		t.Error("missing should not be registered")
	}

	c, err := Create("stub-b")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if c.ID() != "stub-b" {
		t.Errorf("ID() = %q, expected stub-b", c.ID())
	}

	if _, err := Create("missing"); err == nil {
		t.Error("Create of unknown ID should fail")
	}

	games := List()
	var a, b int = -1, -1
	for i, g := range games {
		switch g.ID {
		case "stub-a":
			a = i
			if g.Title != "Stub stub-a" {
				t.Errorf("Title = %q, expected %q", g.Title, "Stub stub-a")
			}
		case "stub-b":
			b = i
		}
	}
	if a < 0 || b < 0 || a > b {
		t.Errorf("List() should contain both stubs sorted by ID, got %+v", games)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub-dup", func() Cartridge { return stubCartridge{id: "stub-dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("stub-dup", func() Cartridge { return stubCartridge{id: "stub-dup"} })
}
