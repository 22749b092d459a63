package transcript

import "errors"

// Sentinel errors for transcript encoding and decoding.
var (
	ErrEncoding             = errors.New("transcript encoding failed")
	ErrUnknownKind          = errors.New("unknown entry kind")
	ErrInstructionsPosition = errors.New("instructions entry must be first and unique")
)
