package authoring

// Config holds the tunables of path authoring. Distances are in centimetres,
// paces in centimetres per second.
type Config struct {
	TraceSpacing      float64 `mapstructure:"traceSpacing"`      // min distance between trace samples
	PaintTrail        int     `mapstructure:"paintTrail"`        // trace samples in the paint preview
	LookBlendDistance float64 `mapstructure:"lookBlendDistance"` // look distance of full look-trail weight
	FeedbackSamples   int     `mapstructure:"feedbackSamples"`   // segments of the feedback gesture
	LargeMove         float64 `mapstructure:"largeMove"`         // min distance between path points
	MinStartDistance  float64 `mapstructure:"minStartDistance"`  // min distance of path points from start
	LoopHorizontal    float64 `mapstructure:"loopHorizontal"`
	LoopVertical      float64 `mapstructure:"loopVertical"`
	MinHintPoints     int     `mapstructure:"minHintPoints"` // path points before loop and slow-down hints
	SlowPace          float64 `mapstructure:"slowPace"`
	ResampleSpacing   float64 `mapstructure:"resampleSpacing"`
	SplineResolution  int     `mapstructure:"splineResolution"`
	CalibrationOffset float64 `mapstructure:"calibrationOffset"` // line displacement toward the camera
	MinPathPoints     int     `mapstructure:"minPathPoints"`
	RibbonWidth       float64 `mapstructure:"ribbonWidth"`
}

// DefaultConfig returns the settings used on device.
func DefaultConfig() Config {
	return Config{
		TraceSpacing:      5,
		PaintTrail:        20,
		LookBlendDistance: 300,
		FeedbackSamples:   20,
		LargeMove:         50,
		MinStartDistance:  100,
		LoopHorizontal:    100,
		LoopVertical:      50,
		MinHintPoints:     4,
		SlowPace:          20,
		ResampleSpacing:   50,
		SplineResolution:  5,
		CalibrationOffset: 30,
		MinPathPoints:     2,
		RibbonWidth:       50,
	}
}
