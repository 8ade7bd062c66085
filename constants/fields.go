package constants

// CanonicalIDLengths are the digit counts considered structurally valid for
// a Bangladesh NID number.
var CanonicalIDLengths = map[int]struct{}{
	10: {},
	13: {},
	17: {},
}

// IsCanonicalIDLength reports whether n is one of the valid NID digit counts.
func IsCanonicalIDLength(n int) bool {
	_, ok := CanonicalIDLengths[n]
	return ok
}

// Extraction error messages surfaced in the result record. The extraction
// layer never raises; failures are always encoded as one of these.
const (
	ErrFileNotFound     = "Image file not found"
	ErrUnsupportedImage = "Unsupported image format"
	ErrNoTextDetected   = "No text detected in the image"
)
