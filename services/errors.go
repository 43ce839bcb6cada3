package services

import "errors"

// Общие ошибки сервисного слоя, маппятся на HTTP-статусы в handlers.
var (
	// Not-found family
	ErrEventNotFound  = errors.New("event not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrCodeNotFound   = errors.New("event code not found")
	ErrRoundNotFound  = errors.New("round not found")

	// Validation and business rules
	ErrEventIDRequired     = errors.New("event id is required")
	ErrEventBodyRequired   = errors.New("event body is required")
	ErrPlayerNameRequired  = errors.New("player name is required")
	ErrInvalidEventCode    = errors.New("event code must be 4 characters from the code alphabet")
	ErrInvalidMatchResult  = errors.New("match result is not a valid outcome")
	ErrInvalidStageToken   = errors.New("invalid stage token")
	ErrInvalidPhase        = errors.New("invalid phase")
	ErrHostNotRemovable    = errors.New("the host cannot be removed from the event")
	ErrOperationNotApplied = errors.New("operation not applicable in the current event state")

	// Conflicts
	ErrEventCodeConflict = errors.New("event code is already in use")
	ErrEventExists       = errors.New("event already exists")
	ErrStageNotAllowed   = errors.New("stage transition not allowed")

	// Authentication / authorization
	ErrReporterNotParticipant = errors.New("reporter is not a participant of this match")

	// Configuration
	ErrPasswordNotConfigured = errors.New("admin password is not configured")
)
