// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	// ErrContextUnavailable is returned by Play when the output device
	// cannot be created or resumed.
	ErrContextUnavailable = errors.New("audio output unavailable")
	ErrUnknownTrack       = errors.New("unknown track")
	ErrInvalidTrack       = errors.New("invalid track descriptor")
	ErrDisposed           = errors.New("engine disposed")
	ErrUnknownStrategy    = errors.New("unknown load strategy")
)
