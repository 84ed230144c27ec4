package stego

import "errors"

var (
	// ErrMissingInput is returned when no input file was given.
	ErrMissingInput = errors.New("no input file given")
	// ErrMissingKey is returned when an operation needs a key and none was given.
	ErrMissingKey = errors.New("no key given")
	// ErrMissingPayload is returned when an embed has nothing to hide.
	ErrMissingPayload = errors.New("no payload given")
	// ErrBadFrame is returned when a compressed payload frame is malformed.
	ErrBadFrame = errors.New("compressed payload frame is malformed")
	// ErrUnknownContainer is returned when a file matches no known signature.
	ErrUnknownContainer = errors.New("unrecognized container format")
)
