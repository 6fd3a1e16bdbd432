package biometric

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/logger"
	"github.com/Kagami/go-face"
)

var (
	ErrModelNotLoaded = errors.New("face recognition models not loaded")
	ErrNoFaceDetected = errors.New("no face detected")
	ErrMultipleFaces  = errors.New("multiple faces detected")
)

// detectorConfidence is reported for every dlib detection; the binding does
// not expose the detector's own score, only detections that already passed
// its internal threshold.
const detectorConfidence = 0.85

// DlibFaceEngine detects faces and extracts 128-float descriptors using the
// dlib resnet model via go-face. Model loading happens once in LoadModels and
// gates every later call.
type DlibFaceEngine struct {
	mu        sync.RWMutex
	rec       *face.Recognizer
	modelPath string
	loaded    bool
}

func NewDlibFaceEngine(modelPath string) *DlibFaceEngine {
	return &DlibFaceEngine{modelPath: modelPath}
}

// LoadModels initializes the dlib recognizer from the models directory. The
// directory must contain the detector, shape predictor and resnet model files.
func (e *DlibFaceEngine) LoadModels() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return nil
	}

	rec, err := face.NewRecognizer(e.modelPath)
	if err != nil {
		return fmt.Errorf("loading dlib models from %s: %w", e.modelPath, err)
	}
	e.rec = rec
	e.loaded = true

	logger.Info("dlib face engine initialized", logger.LoggerOptions{
		Key:  "model_path",
		Data: e.modelPath,
	})
	return nil
}

func (e *DlibFaceEngine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// DetectFaces returns every face in the frame with its bounding box and
// descriptor. Zero detections is a normal outcome, not an error.
func (e *DlibFaceEngine) DetectFaces(ctx context.Context, frame *entities.Frame) ([]entities.DetectionResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.loaded {
		return nil, ErrModelNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	faces, err := e.rec.Recognize(frame.Data)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}

	results := make([]entities.DetectionResult, len(faces))
	for i, f := range faces {
		descriptor := make(entities.FaceDescriptor, len(f.Descriptor))
		copy(descriptor, f.Descriptor[:])
		results[i] = entities.DetectionResult{
			X:          f.Rectangle.Min.X,
			Y:          f.Rectangle.Min.Y,
			Width:      f.Rectangle.Dx(),
			Height:     f.Rectangle.Dy(),
			Confidence: detectorConfidence,
			Descriptor: descriptor,
		}
	}
	return results, nil
}

// ExtractDescriptor extracts the descriptor of the single face in a reference
// photo. No face or more than one face is an error: reference photos must
// show exactly one subject.
func (e *DlibFaceEngine) ExtractDescriptor(ctx context.Context, image []byte) (entities.FaceDescriptor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.loaded {
		return nil, ErrModelNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	faces, err := e.rec.Recognize(image)
	if err != nil {
		return nil, fmt.Errorf("reference photo recognition failed: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrNoFaceDetected
	}
	if len(faces) > 1 {
		return nil, ErrMultipleFaces
	}

	descriptor := make(entities.FaceDescriptor, len(faces[0].Descriptor))
	copy(descriptor, faces[0].Descriptor[:])
	return descriptor, nil
}

func (e *DlibFaceEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rec != nil {
		e.rec.Close()
		e.rec = nil
	}
	e.loaded = false
}
