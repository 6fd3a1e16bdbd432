package controller

import (
	"context"
	"errors"
	"net/http"

	"campuspass.io/application/constants"
	"campuspass.io/application/interfaces"
	"campuspass.io/application/services/flow"
	"campuspass.io/application/verification"
	"campuspass.io/entities"
	server_response "campuspass.io/infrastructure/serverResponse"
)

// StartSession begins a verification session. A non-terminal session must be
// reset before a new one can be started.
func StartSession(ctx *interfaces.ApplicationContext[any]) {
	session, err := flow.Service.Start(context.Background())
	if err != nil {
		if errors.Is(err, verification.ErrSessionActive) {
			server_response.Responder.Respond(ctx.Ctx, http.StatusConflict,
				"a verification session is already running", flow.Service.Session(), nil, &constants.SESSION_ALREADY_ACTIVE)
			return
		}
		server_response.Responder.Respond(ctx.Ctx, http.StatusInternalServerError,
			"could not start verification session", nil, []error{err}, nil)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated,
		"verification session started", session, nil, &constants.SESSION_STARTED)
}

// GetActiveSession reports the current session's phase, status line and, for
// successful sessions, the recorded verification result.
func GetActiveSession(ctx *interfaces.ApplicationContext[any]) {
	session := flow.Service.Session()
	if session == nil {
		server_response.Responder.Respond(ctx.Ctx, http.StatusNotFound,
			"no verification session has been started", nil, nil, &constants.NO_ACTIVE_SESSION)
		return
	}
	responseCode := sessionResponseCode(session)
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, session.Status, session, nil, responseCode)
}

// ResetSession abandons whatever the current session is doing, from any
// phase, and begins a fresh acquisition.
func ResetSession(ctx *interfaces.ApplicationContext[any]) {
	session := flow.Service.Reset(context.Background())
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK,
		"verification session restarted", session, nil, &constants.SESSION_STARTED)
}

func sessionResponseCode(session *entities.VerificationSession) *uint {
	switch session.Phase {
	case entities.PhaseSucceeded:
		return &constants.VERIFICATION_SUCCEEDED
	case entities.PhaseFailedIdentifierUnknown:
		return &constants.IDENTIFIER_UNKNOWN
	case entities.PhaseFailedFaceVerification, entities.PhaseFailedMismatch:
		return &constants.VERIFICATION_FAILED
	default:
		return nil
	}
}
