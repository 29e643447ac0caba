package domain

import "errors"

var (
	UnexpectedDatabaseError = errors.New("unexpected-database-error")
	ErrSnapshotNotFound     = errors.New("snapshot-not-found")
)

var (
	ErrRoomNotFound      = errors.New("room-not-found")
	ErrRoomExists        = errors.New("room-exists")
	ErrRoomClosed        = errors.New("room-closed")
	ErrRoomStarted       = errors.New("room-started")
	ErrSeatUnavailable   = errors.New("seat-unavailable")
	ErrInvalidRoomConfig = errors.New("invalid-room-config")
)

var (
	ErrInvalidToken          = errors.New("invalid-token")
	ErrInviteExhausted       = errors.New("invite-exhausted")
	ErrVoiceJoin             = errors.New("voice-join-failed")
	ErrVoiceCommand          = errors.New("voice-command-failed")
	UnexpectedInviteError    = errors.New("unexpected-invite-error")
	UnexpectedSnapshotError  = errors.New("unexpected-snapshot-error")
	UnexpectedTokenGenError  = errors.New("unexpected-token-generation-error")
	UnexpectedTokenVerifyErr = errors.New("unexpected-token-verification-error")
)

var (
	ErrInvalidSigningAlg     = errors.New("invalid-signing-alg")
	ErrExpiredToken          = errors.New("expired-token")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrCorruptedToken        = errors.New("corrupted-token")
	ErrMissingScope          = errors.New("missing-scope")
)
