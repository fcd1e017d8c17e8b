package walking

import "github.com/npillmayer/pathpioneer/arrows"

// Config holds the tunables of a walking session. Distances are in
// centimetres.
type Config struct {
	GateWidth       float64       `mapstructure:"gateWidth"` // along the start and finish lines
	GateDepth       float64       `mapstructure:"gateDepth"` // across the lines
	RibbonWidth     float64       `mapstructure:"ribbonWidth"`
	TrackWidth      float64       `mapstructure:"trackWidth"` // walker counts as off track outside
	SpeedWarningMPH float64       `mapstructure:"speedWarningMPH"`
	Arrows          arrows.Config `mapstructure:"arrows"`
}

// DefaultConfig returns the settings used on device.
func DefaultConfig() Config {
	return Config{
		GateWidth:       300,
		GateDepth:       60,
		RibbonWidth:     50,
		TrackWidth:      300,
		SpeedWarningMPH: 12,
		Arrows:          arrows.DefaultConfig(),
	}
}
