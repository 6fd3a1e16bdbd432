package entities

import "time"

type VerificationPhase string

const (
	PhaseAcquiringIdentifier     VerificationPhase = "acquiring_identifier"
	PhaseVerifyingFace           VerificationPhase = "verifying_face"
	PhaseSucceeded               VerificationPhase = "succeeded"
	PhaseFailedIdentifierUnknown VerificationPhase = "failed_identifier_unknown"
	PhaseFailedFaceVerification  VerificationPhase = "failed_face_verification"
	PhaseFailedMismatch          VerificationPhase = "failed_mismatch"
)

// Terminal reports whether the phase ends the attempt. Terminal phases
// require an explicit reset before another attempt can start.
func (p VerificationPhase) Terminal() bool {
	switch p {
	case PhaseSucceeded, PhaseFailedIdentifierUnknown, PhaseFailedFaceVerification, PhaseFailedMismatch:
		return true
	}
	return false
}

// VerificationResult is recorded exactly once per session, on the first
// above-threshold comparison.
type VerificationResult struct {
	Similarity float64   `json:"similarity"`
	Confidence float64   `json:"confidence"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// VerificationSession is the mutable state of one end-to-end attempt.
// Invariant: Student is never set without the StudentID that produced it.
type VerificationSession struct {
	ID            string              `json:"id"`
	Phase         VerificationPhase   `json:"phase"`
	StudentID     string              `json:"studentID,omitempty"`
	Student       *StudentRecord      `json:"student,omitempty"`
	Result        *VerificationResult `json:"result,omitempty"`
	Status        string              `json:"status"`
	FailureReason string              `json:"failureReason,omitempty"`
	StartedAt     time.Time           `json:"startedAt"`
}
