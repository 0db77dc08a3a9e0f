package domain

import "errors"

var (
	// ErrInvalidCodeFormat means the raw input failed local validation;
	// no backend call was made.
	ErrInvalidCodeFormat = errors.New("pairing code must be 8 letters or digits")

	// ErrCodeGeneration covers transient backend failures during code
	// generation. Recoverable only by an explicit user-triggered retry.
	ErrCodeGeneration = errors.New("failed to generate pairing code")

	// ErrGenerationRefused means the user is already connected and must
	// not generate a new code.
	ErrGenerationRefused = errors.New("already connected to a partner")

	// Backend rejection reasons for code redemption.
	ErrCodeNotFound  = errors.New("pairing code not found")
	ErrCodeExpired   = errors.New("pairing code has expired")
	ErrSelfPairing   = errors.New("cannot pair with your own code")
	ErrAlreadyPaired = errors.New("code owner already has a partner")
)
