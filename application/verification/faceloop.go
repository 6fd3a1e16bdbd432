package verification

import (
	"context"
	"fmt"
	"time"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/logger"
)

// FaceVerificationLoop repeatedly samples the camera, detects faces, gates
// them on framing quality, and compares the surviving detection against one
// cached reference descriptor. Comparisons are throttled independently of the
// detection interval. Ticks run strictly sequentially on the calling
// goroutine, so no two detection calls are ever in flight at once.
type FaceVerificationLoop struct {
	Camera      Camera
	Engine      FaceEngine
	Config      FaceVerificationConfig
	OnStatus    func(status string)
	OnMultiFace func()
}

// Run owns the camera stream for its duration and releases it before
// returning. It returns the recorded result on the first above-threshold
// comparison, ErrVerificationTimeout when the configured wall-clock budget
// elapses, or ctx.Err() on cancellation. The caller must have extracted the
// reference descriptor before starting the loop; a nil reference is an
// initialization error, not a per-tick failure.
func (l *FaceVerificationLoop) Run(ctx context.Context, reference entities.FaceDescriptor) (*entities.VerificationResult, error) {
	if len(reference) == 0 {
		return nil, ErrNoReferenceFace
	}
	if !l.Engine.Ready() {
		return nil, ErrModelNotLoaded
	}

	if l.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Config.Timeout)
		defer cancel()
	}

	if err := l.Camera.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening camera for face verification: %w", err)
	}
	defer l.Camera.Release()

	timer := newTickTimer(l.Config.DetectInterval)
	defer timer.Stop()

	var lastCompare time.Time
	var lastScore float64
	confirmed := false
	compared := false

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				if compared {
					// The subject was seen and scored but never crossed the
					// threshold within the budget.
					return nil, fmt.Errorf("%w: last score %.1f%%", ErrSubjectMismatch, lastScore*100)
				}
				return nil, ErrVerificationTimeout
			}
			return nil, ctx.Err()
		case <-timer.C():
		}

		result, done := l.tick(ctx, reference, &lastCompare, &lastScore, &confirmed, &compared)
		if done {
			return result, nil
		}

		timer.Reset(l.Config.DetectInterval)
	}
}

func (l *FaceVerificationLoop) tick(
	ctx context.Context,
	reference entities.FaceDescriptor,
	lastCompare *time.Time,
	lastScore *float64,
	confirmed *bool,
	compared *bool,
) (*entities.VerificationResult, bool) {
	frame, err := l.Camera.Capture(ctx)
	if err != nil {
		logger.Warning("frame capture failed during face verification", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, false
	}

	detections, err := l.Engine.DetectFaces(ctx, frame)
	if err != nil {
		logger.Warning("face detection failed on this tick", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, false
	}

	switch {
	case len(detections) == 0:
		*lastScore = 0
		l.setStatus("no face found")
		return nil, false
	case len(detections) > 1:
		// Single-subject policy: never compare when more than one face is
		// in frame.
		l.setStatus("multiple faces detected")
		if l.OnMultiFace != nil {
			l.OnMultiFace()
		}
		return nil, false
	}

	det := detections[0]
	if !FramingCheck(det, frame.Width, frame.Height, l.Config.Gate) {
		l.setStatus("face poorly framed, hold still and center your face")
		return nil, false
	}

	if time.Since(*lastCompare) < l.Config.CompareThrottle {
		return nil, false
	}
	*lastCompare = time.Now()

	score := Similarity(det.Descriptor, reference, l.Config.Policy)
	*lastScore = score
	*compared = true

	if score >= l.Config.MatchThreshold && !*confirmed {
		// Idempotence guard: the success decision fires at most once per
		// session even if another above-threshold tick were to follow.
		*confirmed = true
		l.setStatus(fmt.Sprintf("face verified (%.1f%%)", score*100))
		return &entities.VerificationResult{
			Similarity: score,
			Confidence: det.Confidence,
			VerifiedAt: time.Now(),
		}, true
	}

	l.setStatus(fmt.Sprintf("no match (%.1f%%)", score*100))
	return nil, false
}

func (l *FaceVerificationLoop) setStatus(status string) {
	if l.OnStatus != nil {
		l.OnStatus(status)
	}
}
