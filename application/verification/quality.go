package verification

import (
	"math"

	"campuspass.io/entities"
)

// GateConfig bounds what counts as a usable face detection before any
// comparison is attempted.
type GateConfig struct {
	MinConfidence   float64
	CenterTolerance float64 // max horizontal center offset, fraction of frame width
	MinWidthRatio   float64 // min box width, fraction of frame width
	MaxWidthRatio   float64 // max box width, fraction of frame width
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		MinConfidence:   0.5,
		CenterTolerance: 0.35,
		MinWidthRatio:   0.15,
		MaxWidthRatio:   0.85,
	}
}

// FramingCheck accepts or rejects one detection based on confidence,
// horizontal centering, and relative size. All three checks must pass.
// Rejects faces too small (too far away) or too large (too close).
func FramingCheck(det entities.DetectionResult, frameWidth, frameHeight int, cfg GateConfig) bool {
	if frameWidth <= 0 {
		return false
	}
	if det.Confidence < cfg.MinConfidence {
		return false
	}

	frameCenter := float64(frameWidth) / 2
	offset := math.Abs(det.CenterX() - frameCenter)
	if offset > cfg.CenterTolerance*float64(frameWidth) {
		return false
	}

	widthRatio := float64(det.Width) / float64(frameWidth)
	if widthRatio < cfg.MinWidthRatio || widthRatio > cfg.MaxWidthRatio {
		return false
	}

	return true
}
