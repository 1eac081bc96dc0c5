package calibration

import "errors"

var (
	ErrSessionNotFound       = errors.New("calibration session not found")
	ErrSessionReadOnly       = errors.New("calibration session is read-only for this user")
	ErrRatingNotFound        = errors.New("rating not found in session")
	ErrUnknownQuadrant       = errors.New("unknown target quadrant")
	ErrJustificationRequired = errors.New("a justification is required to move an employee")
	ErrSessionNotDraft       = errors.New("calibration session can only be started from draft")
	ErrSessionAlreadyClosed  = errors.New("calibration session is already closed")
)
