package service

import "errors"

// Sentinel errors mapped by handlers onto the HTTP error taxonomy.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("access to this resource is forbidden")
	ErrEmailTaken          = errors.New("email already registered")
	ErrQuizNotAvailable    = errors.New("quiz is not available")
	ErrQuizExpired         = errors.New("quiz validity window has closed")
	ErrQuizNoQuestions     = errors.New("quiz has no questions")
	ErrAlreadyCompleted    = errors.New("attempt already completed")
	ErrAttemptLimitReached = errors.New("attempt limit reached")
	ErrAttemptNotActive    = errors.New("attempt is not in progress")
	ErrResponseExists      = errors.New("response already exists for this question")
	ErrOfferExpired        = errors.New("offer token expired")
	ErrOfferAccepted       = errors.New("offer already accepted")
)
