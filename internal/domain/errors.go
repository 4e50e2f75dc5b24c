package domain

import "errors"

var (
	// ErrValidation is returned for missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when the caller's role does not allow the operation.
	ErrUnauthorized = errors.New("not authorized")
	// ErrInvalidToken is returned when a token does not resolve to the expected person.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSubmission is returned when a student submits a second time.
	ErrDuplicateSubmission = errors.New("answers already submitted")
	// ErrQuizNotStarted is returned by the gate before the current session starts.
	ErrQuizNotStarted = errors.New("quiz has not started")
	// ErrQuizEnded is returned by the gate after the current session ends.
	ErrQuizEnded = errors.New("quiz has ended")
	// ErrConflict is returned when a concurrent update could not be applied.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
)
