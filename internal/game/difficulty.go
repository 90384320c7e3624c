package game

type Difficulty struct {
	Name  string
	Meter string
	Lanes uint8
}

// LaneMap is the lane count of each StepMania chart type that can be imported.
var LaneMap = map[string]uint8{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}
