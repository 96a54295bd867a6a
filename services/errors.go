package services

import "errors"

var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNegativeCost       = errors.New("upgrade cost must not be negative")
	ErrInvalidMonth       = errors.New("month must be formatted as YYYY-MM")
	ErrCommanderRequired  = errors.New("deck commander is required")
	ErrTooFewParticipants = errors.New("a match needs at least two participants")
	ErrWinnerNotInMatch   = errors.New("winner must be one of the match participants")
	ErrDuplicatePlayer    = errors.New("a member can appear only once per match")
	ErrDeckNotOwned       = errors.New("participant deck does not belong to that member")
	ErrQueryRequired      = errors.New("search query is required")

	ErrEmailConflict = errors.New("email address is already in use")

	ErrForbiddenOperation = errors.New("operation not allowed for the current member")

	ErrMemberNotFound  = errors.New("member not found")
	ErrDeckNotFound    = errors.New("deck not found")
	ErrUpgradeNotFound = errors.New("upgrade not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrPreconNotFound  = errors.New("precon not found")
	ErrDecklistMissing = errors.New("precon decklist is not cached yet")
	ErrCardNotFound    = errors.New("card not found")
)
