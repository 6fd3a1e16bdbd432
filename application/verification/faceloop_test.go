package verification

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"campuspass.io/entities"
)

func fastFaceConfig() FaceVerificationConfig {
	cfg := DefaultFaceVerificationConfig()
	cfg.DetectInterval = time.Millisecond
	cfg.CompareThrottle = 0
	return cfg
}

// descriptorWithCosine builds a two-dimensional descriptor whose cosine
// similarity against (1, 0) rescales to the given score.
func descriptorWithCosine(score float64) entities.FaceDescriptor {
	cos := 2*score - 1
	sin := math.Sqrt(1 - cos*cos)
	return entities.FaceDescriptor{float32(cos), float32(sin)}
}

func TestFaceVerificationLoopMatch(t *testing.T) {
	reference := entities.FaceDescriptor{1, 0}
	camera := newFakeCamera()
	engine := &fakeFaceEngine{
		ready: true,
		detections: [][]entities.DetectionResult{
			nil,
			{centeredDetection(0.9, descriptorWithCosine(0.62))},
		},
	}
	loop := &FaceVerificationLoop{Camera: camera, Engine: engine, Config: fastFaceConfig()}

	result, err := loop.Run(context.Background(), reference)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if math.Abs(result.Similarity-0.62) > 1e-3 {
		t.Fatalf("Similarity = %v, want ~0.62", result.Similarity)
	}
	if result.Confidence != 0.9 {
		t.Fatalf("Confidence = %v, want 0.9", result.Confidence)
	}
	if result.VerifiedAt.IsZero() {
		t.Fatal("VerifiedAt not set")
	}
	if !camera.balanced() {
		t.Fatal("camera stream not released after match")
	}
}

func TestFaceVerificationLoopRequiresReference(t *testing.T) {
	loop := &FaceVerificationLoop{
		Camera: newFakeCamera(),
		Engine: &fakeFaceEngine{ready: true},
		Config: fastFaceConfig(),
	}
	_, err := loop.Run(context.Background(), nil)
	if !errors.Is(err, ErrNoReferenceFace) {
		t.Fatalf("Run error = %v, want ErrNoReferenceFace", err)
	}
}

func TestFaceVerificationLoopRequiresLoadedModels(t *testing.T) {
	loop := &FaceVerificationLoop{
		Camera: newFakeCamera(),
		Engine: &fakeFaceEngine{ready: false},
		Config: fastFaceConfig(),
	}
	_, err := loop.Run(context.Background(), entities.FaceDescriptor{1, 0})
	if !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("Run error = %v, want ErrModelNotLoaded", err)
	}
}

func TestFaceVerificationLoopMultiFaceRejection(t *testing.T) {
	reference := entities.FaceDescriptor{1, 0}
	matching := centeredDetection(0.9, reference)
	engine := &fakeFaceEngine{
		ready: true,
		detections: [][]entities.DetectionResult{
			{matching, matching}, // two faces in frame, must not compare
			{matching},
		},
	}

	var mu sync.Mutex
	var statuses []string
	multiFace := 0
	loop := &FaceVerificationLoop{
		Camera: newFakeCamera(),
		Engine: engine,
		Config: fastFaceConfig(),
		OnStatus: func(s string) {
			mu.Lock()
			statuses = append(statuses, s)
			mu.Unlock()
		},
		OnMultiFace: func() { multiFace++ },
	}

	result, err := loop.Run(context.Background(), reference)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result == nil {
		t.Fatal("expected eventual match after multi-face tick")
	}
	if multiFace != 1 {
		t.Fatalf("multi-face callback fired %d times, want 1", multiFace)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(statuses) < 2 || statuses[0] != "multiple faces detected" {
		t.Fatalf("unexpected status sequence: %v", statuses)
	}
}

func TestFaceVerificationLoopBelowThresholdContinues(t *testing.T) {
	reference := entities.FaceDescriptor{1, 0}
	engine := &fakeFaceEngine{
		ready: true,
		detections: [][]entities.DetectionResult{
			{centeredDetection(0.9, descriptorWithCosine(0.2))},
			{centeredDetection(0.9, descriptorWithCosine(0.3))},
			{centeredDetection(0.9, descriptorWithCosine(0.8))},
		},
	}
	loop := &FaceVerificationLoop{Camera: newFakeCamera(), Engine: engine, Config: fastFaceConfig()}

	result, err := loop.Run(context.Background(), reference)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if math.Abs(result.Similarity-0.8) > 1e-3 {
		t.Fatalf("Similarity = %v, want ~0.8", result.Similarity)
	}
	if engine.calls() != 3 {
		t.Fatalf("expected 3 detection ticks, got %d", engine.calls())
	}
}

func TestFaceVerificationLoopThrottleSkipsComparisons(t *testing.T) {
	reference := entities.FaceDescriptor{1, 0}
	// Every tick carries a matching face, but the throttle allows only the
	// first comparison; the match therefore lands on tick one.
	engine := &fakeFaceEngine{
		ready: true,
		detections: [][]entities.DetectionResult{
			{centeredDetection(0.9, descriptorWithCosine(0.3))},
			{centeredDetection(0.9, descriptorWithCosine(0.9))},
		},
	}
	cfg := fastFaceConfig()
	cfg.CompareThrottle = time.Hour
	loop := &FaceVerificationLoop{Camera: newFakeCamera(), Engine: engine, Config: cfg}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := loop.Run(ctx, reference)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled (throttle must block the second comparison)", err)
	}
}

func TestFaceVerificationLoopTimeout(t *testing.T) {
	reference := entities.FaceDescriptor{1, 0}
	cfg := fastFaceConfig()
	cfg.Timeout = 20 * time.Millisecond

	t.Run("no subject seen", func(t *testing.T) {
		engine := &fakeFaceEngine{ready: true}
		loop := &FaceVerificationLoop{Camera: newFakeCamera(), Engine: engine, Config: cfg}
		_, err := loop.Run(context.Background(), reference)
		if !errors.Is(err, ErrVerificationTimeout) {
			t.Fatalf("Run error = %v, want ErrVerificationTimeout", err)
		}
	})

	t.Run("subject seen but below threshold", func(t *testing.T) {
		engine := &fakeFaceEngine{
			ready: true,
			detections: [][]entities.DetectionResult{
				{centeredDetection(0.9, descriptorWithCosine(0.2))},
			},
		}
		loop := &FaceVerificationLoop{Camera: newFakeCamera(), Engine: engine, Config: cfg}
		_, err := loop.Run(context.Background(), reference)
		if !errors.Is(err, ErrSubjectMismatch) {
			t.Fatalf("Run error = %v, want ErrSubjectMismatch", err)
		}
	})
}

func TestFaceVerificationLoopGateRejection(t *testing.T) {
	reference := entities.FaceDescriptor{1, 0}
	offCenter := entities.DetectionResult{X: 520, Y: 100, Width: 110, Height: 140, Confidence: 0.99, Descriptor: reference}
	engine := &fakeFaceEngine{
		ready: true,
		detections: [][]entities.DetectionResult{
			{offCenter},
			{centeredDetection(0.9, reference)},
		},
	}
	loop := &FaceVerificationLoop{Camera: newFakeCamera(), Engine: engine, Config: fastFaceConfig()}

	result, err := loop.Run(context.Background(), reference)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if engine.calls() != 2 {
		t.Fatalf("expected the gated tick to be skipped and a second tick to run, got %d calls", engine.calls())
	}
	if result.Similarity != 1 {
		t.Fatalf("Similarity = %v, want 1 for identical descriptors", result.Similarity)
	}
}
