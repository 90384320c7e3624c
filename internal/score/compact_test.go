package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
)

type compactTest struct {
	Inputs  []game.Input
	Compact []InputsCompact
}

var compactTests = []compactTest{
	{[]game.Input{}, []InputsCompact{}},
	{
		[]game.Input{
			{Lane: 0, Pressed: true, Time: 100},
			{Lane: 0, Pressed: false, Time: 150},
			{Lane: 3, Pressed: true, Time: 200},
		},
		[]InputsCompact{
			{Lane: 0, Times: []time.Duration{100, 150}},
			{Lane: 1, Times: []time.Duration{}},
			{Lane: 2, Times: []time.Duration{}},
			{Lane: 3, Times: []time.Duration{200}},
		},
	},
	{
		[]game.Input{
			{Lane: 1, Pressed: true, Time: 1},
			{Lane: 0, Pressed: true, Time: 2},
			{Lane: 1, Pressed: false, Time: 3},
			{Lane: 0, Pressed: false, Time: 4},
		},
		[]InputsCompact{
			{Lane: 0, Times: []time.Duration{2, 4}},
			{Lane: 1, Times: []time.Duration{1, 3}},
		},
	},
}

func equalCompact(p, q []InputsCompact) bool {
	if len(p) != len(q) {
		return false
	}
	for i := 0; i < len(p); i++ {
		pi, qi := p[i], q[i]
		if pi.Lane != qi.Lane {
			return false
		}
		if len(pi.Times) != len(qi.Times) {
			return false
		}
		for j := 0; j < len(pi.Times); j++ {
			if pi.Times[j] != qi.Times[j] {
				return false
			}
		}
	}
	return true
}

func equalInputs(p, q []game.Input) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func TestCompactInputs(t *testing.T) {
	for _, test := range compactTests {
		out := compactInputs(test.Inputs)
		if !equalCompact(out, test.Compact) {
			t.Log("out     ", out)
			t.Log("expected", test.Compact)
			t.Fail()
		}
	}
}

func TestUncompactInputs(t *testing.T) {
	for _, test := range compactTests {
		out := uncompactInputs(test.Compact)
		if !equalInputs(out, test.Inputs) {
			t.Log("in      ", test.Compact)
			t.Log("out     ", out)
			t.Log("expected", test.Inputs)
			t.Fail()
		}
	}
}

func TestCompactKeepsParity(t *testing.T) {
	in := []game.Input{
		{Lane: 0, Pressed: true, Time: 2},
		{Lane: 0, Pressed: true, Time: 5},
	}
	out := uncompactInputs(compactInputs(in))
	expected := []game.Input{
		{Lane: 0, Pressed: true, Time: 2},
		{Lane: 0, Pressed: false, Time: 5},
		{Lane: 0, Pressed: true, Time: 5},
	}
	if !equalInputs(out, expected) {
		t.Log("out     ", out)
		t.Log("expected", expected)
		t.Fail()
	}
}
