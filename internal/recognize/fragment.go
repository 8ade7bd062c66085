package recognize

import "context"

// Fragment is one recognized text span with its bounding box in image
// coordinates, ordered corner points clockwise from top-left. Fragment order
// follows the recognizer's top-to-bottom, left-to-right scan order and must
// be preserved by callers that join fragments.
type Fragment struct {
	Box        [4][2]int
	Text       string
	Confidence float32
}

// Recognizer turns an image file into an ordered sequence of text fragments.
// Implementations must not retain the path after returning.
type Recognizer interface {
	Recognize(ctx context.Context, path string) ([]Fragment, error)
}

// Params are the tunable knobs of a recognition call. They map onto the
// decoder settings of the recognizer service; the local tesseract adapter
// ignores the ones it cannot honor.
type Params struct {
	BeamWidth         int     // beam search width, default 5
	ContrastThreshold float64 // minimum contrast for a region, default 0.1
	AdjustContrast    float64 // contrast adjustment factor, default 0.5
	TextThreshold     float64 // text confidence threshold, default 0.7
	LowText           float64 // low-text score bound, default 0.4
	LinkThreshold     float64 // link confidence threshold, default 0.4
}

// DefaultParams returns the documented default recognition parameters.
func DefaultParams() Params {
	return Params{
		BeamWidth:         5,
		ContrastThreshold: 0.1,
		AdjustContrast:    0.5,
		TextThreshold:     0.7,
		LowText:           0.4,
		LinkThreshold:     0.4,
	}
}
