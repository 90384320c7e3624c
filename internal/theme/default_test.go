package theme

import (
	"strings"
	"testing"

	"git.lost.host/meutraa/twolane/internal/game"
)

func TestRenders(t *testing.T) {
	var th Theme = New()
	for _, label := range game.Labels {
		if !strings.Contains(th.RenderLabel(label), label.String()) {
			t.Log("label", label, "not rendered")
			t.Fail()
		}
	}
	// Lanes beyond the palette wrap around
	if !strings.Contains(th.RenderNote(100), noteSym) || !strings.Contains(th.RenderTail(3), tailSym) {
		t.Fail()
	}
	if !strings.Contains(th.RenderHitField(0, true), pressSym) || !strings.Contains(th.RenderHitField(0, false), barSym) {
		t.Fail()
	}
	if s := th.RenderStat("Score", 175); !strings.Contains(s, "Score:") || !strings.Contains(s, "175") {
		t.Fatalf("stat %q", s)
	}
}
