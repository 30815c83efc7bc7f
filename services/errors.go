package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	// Not found
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Mutation attempted on an inactive match
	ErrMatchEnded = errors.New("match has already ended")

	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrTeamNamesRequired    = errors.New("both team names are required")
	ErrUnknownTeamSide      = errors.New("team must be home or away")
	ErrUnknownStatType      = errors.New("unknown stat type")
	ErrPlayerNameRequired   = errors.New("player name is required")
	ErrJerseyNumberNegative = errors.New("jersey number must not be negative")
	ErrNegativeScore        = errors.New("scores must not be negative")
	ErrSetNumberOutOfRange  = errors.New("current set must be between 1 and 5")
	ErrEmptySetEnd          = errors.New("cannot end a set before any point is scored")

	// CSV roster import
	ErrImportFormat = errors.New("invalid roster CSV format")
)
