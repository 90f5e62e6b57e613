package entity

import "github.com/pkg/errors"

var (
	// ErrHandleCollision is returned when a different instance is registered under a live handle
	ErrHandleCollision = errors.New("handle collision")
	// ErrNilHandle is returned when a component without handle is registered
	ErrNilHandle = errors.New("nil handle")
	// ErrMissingRoot is returned when a snapshot's root is not among its components
	ErrMissingRoot = errors.New("missing root")
	// ErrUnknownKind is returned when encoding or decoding a component kind that is not registered
	ErrUnknownKind = errors.New("unknown component kind")
)
