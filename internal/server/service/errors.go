package service

import "errors"

var (
	// ErrUnknownOperation returned for operations outside the schema
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidVariables returned when variables do not match the operation
	ErrInvalidVariables = errors.New("invalid variables")

	// ErrForbidden returned when the session is bound to another notebook
	ErrForbidden = errors.New("operation not allowed for this session")

	// ErrUnsupportedDiff returned for patch types other than replace
	ErrUnsupportedDiff = errors.New("only replace patches are supported")

	// ErrNoSession returned when the context carries no session
	ErrNoSession = errors.New("no session in context")
)
