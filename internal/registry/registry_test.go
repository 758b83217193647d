package registry

import (
	"strings"
	"testing"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return strings.ToUpper(g.id) }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return core.GameState{} }

func TestRegisterCreateList(t *testing.T) {
	Register("zz-test-b", func() Game { return &stubGame{id: "zz-test-b"} })
	Register("zz-test-a", func() Game { return &stubGame{id: "zz-test-a"} })

	if !Exists("zz-test-a") {
		t.Error("Exists(zz-test-a) = false, expected true")
	}

	g, err := Create("zz-test-b")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "zz-test-b" {
		t.Errorf("Create().ID() = %q, expected zz-test-b", g.ID())
	}

	var ids []string
	for _, info := range List() {
		if strings.HasPrefix(info.ID, "zz-test-") {
			ids = append(ids, info.ID)
			if info.Title != strings.ToUpper(info.ID) {
				t.Errorf("List() title = %q, expected %q", info.Title, strings.ToUpper(info.ID))
			}
		}
	}
	if len(ids) != 2 || ids[0] != "zz-test-a" || ids[1] != "zz-test-b" {
		t.Errorf("List() ids = %v, expected sorted [zz-test-a zz-test-b]", ids)
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-ruleset"); err == nil {
		t.Error("Create() with unknown id should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func() Game { return &stubGame{id: "zz-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("Register() twice should panic")
		}
	}()
	Register("zz-dup", func() Game { return &stubGame{id: "zz-dup"} })
}
