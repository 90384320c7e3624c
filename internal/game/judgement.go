package game

import (
	"time"
)

type Label uint8

const (
	Perfect Label = iota
	Good
	Near
	Miss
)

// Labels in tier order, best first.
var Labels = [...]Label{Perfect, Good, Near, Miss}

func (l Label) String() string {
	switch l {
	case Perfect:
		return "Perfect"
	case Good:
		return "Good"
	case Near:
		return "Near"
	case Miss:
		return "Miss"
	}
	return "?"
}

type Judgement struct {
	Points int
	Label  Label
	Time   time.Duration // When the judgement happened
	Lane   uint8
	Offset float64       // Signed distance from the hit-line, positive once past it
	Error  time.Duration // Press time minus note time, zero for timeouts
}

type Tier struct {
	Distance   float64 // Exclusive upper bound
	Multiplier float64
	Label      Label
}

const MaxPoints = 100

// Tiers is the grading curve, smaller distance first. Anything not below
// the last distance is a Miss worth nothing.
var Tiers = [...]Tier{
	{Distance: 20, Multiplier: 1.0, Label: Perfect},
	{Distance: 35, Multiplier: 0.7, Label: Good},
	{Distance: 50, Multiplier: 0.4, Label: Near},
}

// Grade maps an absolute distance from the hit-line to points and a label.
func Grade(distance float64) (int, Label) {
	for _, tier := range Tiers {
		if distance < tier.Distance {
			return int(MaxPoints * tier.Multiplier), tier.Label
		}
	}
	return 0, Miss
}
