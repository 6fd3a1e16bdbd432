package verification

import (
	"context"
	"fmt"

	"campuspass.io/infrastructure/logger"
)

// IDAcquisitionLoop repeatedly samples the camera, preprocesses the frame for
// contrast, runs OCR, and reconciles the recognized text against the
// registry's valid identifiers until one is found or the attempt budget runs
// out. Run executes ticks strictly sequentially on the calling goroutine, so
// a tick's OCR call always completes before the next tick starts.
type IDAcquisitionLoop struct {
	Camera   Camera
	OCR      OCREngine
	Pre      FramePreprocessor
	Config   IDAcquisitionConfig
	OnStatus func(status string)
}

// Run owns the camera stream for its duration and releases it before
// returning, whatever the outcome. It returns the identifier exactly once on
// success, ErrAttemptsExhausted when the budget runs out, or ctx.Err() on
// cancellation.
func (l *IDAcquisitionLoop) Run(ctx context.Context, validIDs []string) (string, error) {
	if err := l.Camera.Open(ctx); err != nil {
		return "", fmt.Errorf("opening camera for identifier acquisition: %w", err)
	}
	defer l.Camera.Release()

	timer := newTickTimer(l.Config.Interval)
	defer timer.Stop()

	for attempt := 1; attempt <= l.Config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C():
		}

		l.setStatus(fmt.Sprintf("scanning ID card (attempt %d/%d)", attempt, l.Config.MaxAttempts))

		id, found := l.tick(ctx, validIDs)
		if found {
			l.setStatus(fmt.Sprintf("identifier %s recognized", id))
			return id, nil
		}

		timer.Reset(l.Config.Interval)
	}

	l.setStatus("could not read an ID card")
	return "", ErrAttemptsExhausted
}

// tick runs one capture+recognize+reconcile cycle. Transient capture or OCR
// failures are absorbed here; the loop moves on to its next scheduled tick.
func (l *IDAcquisitionLoop) tick(ctx context.Context, validIDs []string) (string, bool) {
	frame, err := l.Camera.Capture(ctx)
	if err != nil {
		logger.Warning("frame capture failed during identifier acquisition", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return "", false
	}

	if l.Pre != nil {
		prepared, err := l.Pre.Prepare(frame)
		if err != nil {
			logger.Warning("frame preprocessing failed, recognizing raw frame", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
		} else {
			frame = prepared
		}
	}

	text, err := l.OCR.Recognize(ctx, frame)
	if err != nil {
		logger.Warning("text recognition failed on this tick", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return "", false
	}

	return Reconcile(text, validIDs)
}

func (l *IDAcquisitionLoop) setStatus(status string) {
	if l.OnStatus != nil {
		l.OnStatus(status)
	}
}
