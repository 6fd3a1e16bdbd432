package verification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"campuspass.io/entities"
)

type fakeCamera struct {
	mu       sync.Mutex
	opens    int
	releases int
	frame    *entities.Frame
	openErr  error
}

func newFakeCamera() *fakeCamera {
	return &fakeCamera{frame: &entities.Frame{Data: []byte{0x1}, Width: 640, Height: 480}}
}

func (c *fakeCamera) Open(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openErr != nil {
		return c.openErr
	}
	c.opens++
	return nil
}

func (c *fakeCamera) Capture(context.Context) (*entities.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame, nil
}

func (c *fakeCamera) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releases++
}

func (c *fakeCamera) balanced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens == c.releases
}

// fakeOCR replays scripted results and tracks concurrent calls so tests can
// assert the re-entrancy guard.
type fakeOCR struct {
	mu            sync.Mutex
	script        []string
	calls         int
	delay         time.Duration
	inFlight      int32
	maxInFlight   int32
	errEveryOther bool
}

func (o *fakeOCR) Recognize(ctx context.Context, _ *entities.Frame) (string, error) {
	current := atomic.AddInt32(&o.inFlight, 1)
	defer atomic.AddInt32(&o.inFlight, -1)
	for {
		max := atomic.LoadInt32(&o.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt32(&o.maxInFlight, max, current) {
			break
		}
	}

	if o.delay > 0 {
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.errEveryOther && o.calls%2 == 1 {
		return "", errors.New("transient recognition failure")
	}
	if len(o.script) == 0 {
		return "", nil
	}
	text := o.script[0]
	if len(o.script) > 1 {
		o.script = o.script[1:]
	}
	return text, nil
}

type fakeFaceEngine struct {
	mu          sync.Mutex
	ready       bool
	detections  [][]entities.DetectionResult
	detectCalls int
	reference   entities.FaceDescriptor
	extractErr  error
	extracts    int
}

func (e *fakeFaceEngine) Ready() bool { return e.ready }

func (e *fakeFaceEngine) DetectFaces(context.Context, *entities.Frame) ([]entities.DetectionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detectCalls++
	if len(e.detections) == 0 {
		return nil, nil
	}
	current := e.detections[0]
	if len(e.detections) > 1 {
		e.detections = e.detections[1:]
	}
	return current, nil
}

func (e *fakeFaceEngine) ExtractDescriptor(context.Context, []byte) (entities.FaceDescriptor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extracts++
	if e.extractErr != nil {
		return nil, e.extractErr
	}
	return e.reference, nil
}

func (e *fakeFaceEngine) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detectCalls
}

type fakePhotoStore struct {
	mu      sync.Mutex
	fetches int
	err     error
}

func (p *fakePhotoStore) FetchPhoto(context.Context, string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	if p.err != nil {
		return nil, p.err
	}
	return []byte("photo"), nil
}

func (p *fakePhotoStore) fetchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

type fakeDescriptorCache struct {
	mu      sync.Mutex
	entries map[string]entities.FaceDescriptor
}

func newFakeDescriptorCache() *fakeDescriptorCache {
	return &fakeDescriptorCache{entries: map[string]entities.FaceDescriptor{}}
}

func (c *fakeDescriptorCache) FindDescriptor(_ context.Context, studentID string) (entities.FaceDescriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	descriptor, ok := c.entries[studentID]
	return descriptor, ok
}

func (c *fakeDescriptorCache) SaveDescriptor(_ context.Context, studentID string, descriptor entities.FaceDescriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[studentID] = descriptor
}

type fakeNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *fakeNotifier) NotifyVerified(*entities.StudentRecord, *entities.VerificationResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
}

func (n *fakeNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// centeredDetection builds a detection that passes the default quality gate
// on a 640x480 frame.
func centeredDetection(confidence float64, descriptor entities.FaceDescriptor) entities.DetectionResult {
	return entities.DetectionResult{
		X:          220,
		Y:          100,
		Width:      200,
		Height:     240,
		Confidence: confidence,
		Descriptor: descriptor,
	}
}
