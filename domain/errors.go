package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user-not-found")
	ErrRoomNotFound = errors.New("room-not-found")

	UnexpectedDatabaseError = errors.New("unexpected database error")

	ErrExpiredToken          = errors.New("expired-token")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrInvalidSigningAlg     = errors.New("invalid-signing-algorithm")
	ErrCorruptedToken        = errors.New("corrupted-token")

	UnexpectedTokenGenerationError   = errors.New("unexpected token generation error")
	UnexpectedTokenVerificationError = errors.New("unexpected token verification error")
)
