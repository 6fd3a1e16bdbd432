package verification

import (
	"context"
	"errors"
	"time"

	"campuspass.io/entities"
)

// Camera yields live frames from a capture device. The stream is exclusively
// owned by whichever loop is currently active; ownership transfers
// release-then-reacquire at each flow transition.
type Camera interface {
	Open(ctx context.Context) error
	Capture(ctx context.Context) (*entities.Frame, error)
	Release()
}

// OCREngine turns one still frame into free-form recognized text.
type OCREngine interface {
	Recognize(ctx context.Context, frame *entities.Frame) (string, error)
}

// FaceEngine detects faces and extracts descriptors. Ready reports whether
// the underlying models have been loaded; both calls fail before that.
type FaceEngine interface {
	Ready() bool
	DetectFaces(ctx context.Context, frame *entities.Frame) ([]entities.DetectionResult, error)
	ExtractDescriptor(ctx context.Context, image []byte) (entities.FaceDescriptor, error)
}

// FramePreprocessor prepares a captured frame for OCR. The production
// implementation converts to grayscale and applies a fixed-midpoint binary
// threshold to maximize text contrast.
type FramePreprocessor interface {
	Prepare(frame *entities.Frame) (*entities.Frame, error)
}

// PhotoStore fetches a student's reference photo by its locator.
type PhotoStore interface {
	FetchPhoto(ctx context.Context, locator string) ([]byte, error)
}

// DescriptorCache stores extracted reference descriptors across sessions so
// repeat verifications skip the photo fetch + extraction. Best effort; a miss
// or a failed write never fails a session.
type DescriptorCache interface {
	FindDescriptor(ctx context.Context, studentID string) (entities.FaceDescriptor, bool)
	SaveDescriptor(ctx context.Context, studentID string, descriptor entities.FaceDescriptor)
}

// Notifier is invoked exactly once per successful session. Implementations
// must not block the verification path.
type Notifier interface {
	NotifyVerified(student *entities.StudentRecord, result *entities.VerificationResult)
}

var (
	ErrModelNotLoaded      = errors.New("face recognition models not loaded")
	ErrAttemptsExhausted   = errors.New("identifier acquisition attempt budget exhausted")
	ErrNoReferenceFace     = errors.New("no face found in reference photo")
	ErrVerificationTimeout = errors.New("face verification timed out")
	ErrSubjectMismatch     = errors.New("subject did not match the reference face")
	ErrSessionActive       = errors.New("a verification session is already active")
)

// IDAcquisitionConfig drives the ID acquisition loop.
type IDAcquisitionConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

func DefaultIDAcquisitionConfig() IDAcquisitionConfig {
	return IDAcquisitionConfig{
		Interval:    800 * time.Millisecond,
		MaxAttempts: 20,
	}
}

// FaceVerificationConfig drives the face verification loop. Timeout is the
// wall-clock budget for the whole loop; zero disables it and the loop runs
// until a match or an external cancel.
type FaceVerificationConfig struct {
	DetectInterval  time.Duration
	CompareThrottle time.Duration
	MatchThreshold  float64
	Policy          ScoringPolicy
	Gate            GateConfig
	Timeout         time.Duration
}

func DefaultFaceVerificationConfig() FaceVerificationConfig {
	return FaceVerificationConfig{
		DetectInterval:  400 * time.Millisecond,
		CompareThrottle: 1500 * time.Millisecond,
		MatchThreshold:  0.5,
		Policy:          ScoreCosine,
		Gate:            DefaultGateConfig(),
		Timeout:         0,
	}
}
