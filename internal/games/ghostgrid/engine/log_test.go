package engine

import (
	"slices"
	"testing"
)

func TestActionLogKeepsNewestTwo(t *testing.T) {
	var l ActionLog
	l.Add("a")
	l.Add("b")
	l.Add("c")

	if want := []string{"c", "b"}; !slices.Equal(l.Lines(), want) {
		t.Errorf("Lines() = %v, expected %v", l.Lines(), want)
	}

	lines := l.Lines()
	lines[0] = "mutated"
	if l.Lines()[0] != "c" {
		t.Error("Lines() should return a copy")
	}

	l.Clear()
	if len(l.Lines()) != 0 {
		t.Errorf("after Clear() got %v", l.Lines())
	}
}
