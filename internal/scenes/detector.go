package scenes

import "context"

// Boundary is one detected scene span in seconds.
type Boundary struct {
	Start float64
	End   float64
}

// DefaultThreshold is the content-change threshold used when a call does not
// supply one. The scale belongs to the detector; 27 catches moderate cuts.
const DefaultThreshold = 27.0

// Detector is the shot-boundary engine boundary. Implementations block for
// the duration of the detection and honor context cancellation.
type Detector interface {
	// Name identifies the detector in logs and errors.
	Name() string
	// Available reports whether the detector can run at all.
	Available(ctx context.Context) error
	// DetectScenes returns the ordered boundary list for videoPath. A
	// threshold <= 0 selects DefaultThreshold. Zero boundaries is a valid
	// result, not an error.
	DetectScenes(ctx context.Context, videoPath string, threshold float64) ([]Boundary, error)
}
