package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campuspass.io/application/repository"
	"campuspass.io/application/utils"
	"campuspass.io/entities"
	"campuspass.io/infrastructure/logger"
)

type EventKind string

const (
	EventIdentifierAcquired     EventKind = "identifier_acquired"
	EventIdentifierUnknown      EventKind = "identifier_unknown"
	EventFaceVerified           EventKind = "face_verified"
	EventFaceVerificationFailed EventKind = "face_verification_failed"
	EventMultiFaceRejected      EventKind = "multi_face_rejected"
)

// Event is a terminal or rejection notification delivered to subscribers.
type Event struct {
	Kind       EventKind `json:"kind"`
	SessionID  string    `json:"sessionID"`
	StudentID  string    `json:"studentID,omitempty"`
	Similarity float64   `json:"similarity,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// FlowDependencies collects everything a flow controller needs. Registry,
// Camera, OCR, Faces and Photos are required; Pre, Descriptors and Notifier
// are optional.
type FlowDependencies struct {
	Registry    repository.StudentRegistry
	Camera      Camera
	OCR         OCREngine
	Faces       FaceEngine
	Pre         FramePreprocessor
	Photos      PhotoStore
	Descriptors DescriptorCache
	Notifier    Notifier
	IDConfig    IDAcquisitionConfig
	FaceConfig  FaceVerificationConfig
}

// FlowController sequences one verification session through
// AcquiringIdentifier -> VerifyingFace -> a terminal phase. It activates at
// most one acquisition loop at a time; the camera stream is owned by the
// active loop and released at every transition. Terminal phases are sticky
// until Reset.
type FlowController struct {
	deps FlowDependencies

	mu          sync.Mutex
	session     *entities.VerificationSession
	cancel      context.CancelFunc
	done        chan struct{}
	subscribers []chan Event
}

func NewFlowController(deps FlowDependencies) *FlowController {
	if deps.IDConfig.Interval <= 0 {
		deps.IDConfig = DefaultIDAcquisitionConfig()
	}
	if deps.FaceConfig.DetectInterval <= 0 {
		deps.FaceConfig = DefaultFaceVerificationConfig()
	}
	return &FlowController{deps: deps}
}

// Start creates a fresh session and begins identifier acquisition. It fails
// with ErrSessionActive while a non-terminal session is running.
func (fc *FlowController) Start(ctx context.Context) (*entities.VerificationSession, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.session != nil && !fc.session.Phase.Terminal() {
		return nil, ErrSessionActive
	}
	return fc.startLocked(ctx), nil
}

// Reset cancels whatever is running, waits until the loop's timers are
// stopped and its camera stream released, clears every session field, and
// restarts identifier acquisition. Valid from any phase.
func (fc *FlowController) Reset(ctx context.Context) *entities.VerificationSession {
	fc.mu.Lock()
	cancel, done := fc.cancel, fc.done
	fc.cancel, fc.done = nil, nil
	fc.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.startLocked(ctx)
}

// Stop cancels the active session without starting a new one. Used at
// shutdown.
func (fc *FlowController) Stop() {
	fc.mu.Lock()
	cancel, done := fc.cancel, fc.done
	fc.cancel, fc.done = nil, nil
	fc.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (fc *FlowController) startLocked(ctx context.Context) *entities.VerificationSession {
	fc.session = &entities.VerificationSession{
		ID:        utils.GenerateULIDString(),
		Phase:     entities.PhaseAcquiringIdentifier,
		Status:    "hold your student ID card up to the camera",
		StartedAt: time.Now(),
	}
	runCtx, cancel := context.WithCancel(ctx)
	fc.cancel = cancel
	fc.done = make(chan struct{})
	go fc.run(runCtx, fc.done)
	return fc.snapshotLocked()
}

// Session returns a copy of the current session, or nil when none started.
func (fc *FlowController) Session() *entities.VerificationSession {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.snapshotLocked()
}

func (fc *FlowController) Phase() entities.VerificationPhase {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.session == nil {
		return ""
	}
	return fc.session.Phase
}

// Subscribe returns a channel of terminal and rejection events. Slow
// consumers drop events rather than stalling the verification loops.
func (fc *FlowController) Subscribe() <-chan Event {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	ch := make(chan Event, 16)
	fc.subscribers = append(fc.subscribers, ch)
	return ch
}

func (fc *FlowController) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	validIDs, err := fc.deps.Registry.ListIDs(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("failed to list registry identifiers", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		fc.fail(entities.PhaseFailedIdentifierUnknown, "registry unavailable", EventIdentifierUnknown)
		return
	}

	idLoop := &IDAcquisitionLoop{
		Camera:   fc.deps.Camera,
		OCR:      fc.deps.OCR,
		Pre:      fc.deps.Pre,
		Config:   fc.deps.IDConfig,
		OnStatus: fc.setStatus,
	}
	studentID, err := idLoop.Run(ctx, validIDs)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		if errors.Is(err, ErrAttemptsExhausted) {
			// Distinct from "recognized but unknown": nothing readable was
			// ever reconciled before the attempt budget ran out.
			fc.fail(entities.PhaseFailedIdentifierUnknown, "identifier acquisition timed out", EventIdentifierUnknown)
			return
		}
		fc.fail(entities.PhaseFailedIdentifierUnknown, err.Error(), EventIdentifierUnknown)
		return
	}

	student, err := fc.deps.Registry.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fc.fail(entities.PhaseFailedIdentifierUnknown, fmt.Sprintf("identifier %s not in registry", studentID), EventIdentifierUnknown)
		return
	}

	fc.bindStudent(studentID, student)

	reference, err := fc.referenceDescriptor(ctx, student)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("reference descriptor extraction failed", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "studentID",
			Data: studentID,
		})
		fc.fail(entities.PhaseFailedFaceVerification, "could not prepare reference photo", EventFaceVerificationFailed)
		return
	}

	faceLoop := &FaceVerificationLoop{
		Camera:   fc.deps.Camera,
		Engine:   fc.deps.Faces,
		Config:   fc.deps.FaceConfig,
		OnStatus: fc.setStatus,
		OnMultiFace: func() {
			fc.emit(Event{
				Kind:      EventMultiFaceRejected,
				SessionID: fc.sessionID(),
				StudentID: studentID,
				Message:   "multiple faces detected, only one subject may be in frame",
			})
		},
	}
	result, err := faceLoop.Run(ctx, reference)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		if errors.Is(err, ErrSubjectMismatch) {
			fc.fail(entities.PhaseFailedMismatch, err.Error(), EventFaceVerificationFailed)
			return
		}
		fc.fail(entities.PhaseFailedFaceVerification, err.Error(), EventFaceVerificationFailed)
		return
	}

	fc.succeed(result)
}

// referenceDescriptor resolves the one descriptor the whole face loop
// compares against: cache hit, or photo fetch + extraction followed by a
// best-effort cache write.
func (fc *FlowController) referenceDescriptor(ctx context.Context, student *entities.StudentRecord) (entities.FaceDescriptor, error) {
	if fc.deps.Descriptors != nil {
		if descriptor, ok := fc.deps.Descriptors.FindDescriptor(ctx, student.StudentID); ok {
			return descriptor, nil
		}
	}

	fc.setStatus("preparing reference photo")
	photo, err := fc.deps.Photos.FetchPhoto(ctx, student.PhotoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching reference photo %s: %w", student.PhotoURL, err)
	}
	descriptor, err := fc.deps.Faces.ExtractDescriptor(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("extracting reference descriptor: %w", err)
	}

	if fc.deps.Descriptors != nil {
		fc.deps.Descriptors.SaveDescriptor(ctx, student.StudentID, descriptor)
	}
	return descriptor, nil
}

func (fc *FlowController) bindStudent(studentID string, student *entities.StudentRecord) {
	fc.mu.Lock()
	fc.session.StudentID = studentID
	fc.session.Student = student
	fc.session.Phase = entities.PhaseVerifyingFace
	fc.session.Status = fmt.Sprintf("identifier %s matched to %s, look into the camera", studentID, student.FullName())
	sessionID := fc.session.ID
	fc.mu.Unlock()

	fc.emit(Event{
		Kind:      EventIdentifierAcquired,
		SessionID: sessionID,
		StudentID: studentID,
		Message:   student.FullName(),
	})
}

// succeed records the verification result. The terminal transition is
// idempotent within a session: Result is written at most once, and the event
// and notifier fire only on the call that writes it. Every successful
// session notifies, including ones started after a previous terminal session.
func (fc *FlowController) succeed(result *entities.VerificationResult) {
	fc.mu.Lock()
	if fc.session == nil || fc.session.Result != nil {
		fc.mu.Unlock()
		return
	}
	fc.session.Result = result
	fc.session.Phase = entities.PhaseSucceeded
	fc.session.Status = fmt.Sprintf("verified %s (%.1f%%)", fc.session.Student.FullName(), result.Similarity*100)
	sessionID := fc.session.ID
	student := fc.session.Student
	fc.mu.Unlock()

	fc.emit(Event{
		Kind:       EventFaceVerified,
		SessionID:  sessionID,
		StudentID:  student.StudentID,
		Similarity: result.Similarity,
		Confidence: result.Confidence,
	})

	if fc.deps.Notifier != nil {
		fc.deps.Notifier.NotifyVerified(student, result)
	}
}

func (fc *FlowController) fail(phase entities.VerificationPhase, reason string, kind EventKind) {
	fc.mu.Lock()
	if fc.session == nil || fc.session.Phase.Terminal() {
		fc.mu.Unlock()
		return
	}
	fc.session.Phase = phase
	fc.session.FailureReason = reason
	fc.session.Status = reason
	sessionID := fc.session.ID
	studentID := fc.session.StudentID
	fc.mu.Unlock()

	fc.emit(Event{
		Kind:      kind,
		SessionID: sessionID,
		StudentID: studentID,
		Message:   reason,
	})
}

func (fc *FlowController) setStatus(status string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.session != nil {
		fc.session.Status = status
	}
}

func (fc *FlowController) sessionID() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.session == nil {
		return ""
	}
	return fc.session.ID
}

func (fc *FlowController) emit(event Event) {
	fc.mu.Lock()
	subscribers := make([]chan Event, len(fc.subscribers))
	copy(subscribers, fc.subscribers)
	fc.mu.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (fc *FlowController) snapshotLocked() *entities.VerificationSession {
	if fc.session == nil {
		return nil
	}
	copied := *fc.session
	if fc.session.Result != nil {
		result := *fc.session.Result
		copied.Result = &result
	}
	return &copied
}
