// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad classifies failures to fetch or read a track's bytes.
	ErrLoad = errors.New("track load failed")
	// ErrDecode classifies unsupported or corrupt audio data.
	ErrDecode = errors.New("track decode failed")

	ErrNoFetcher     = errors.New("no fetcher for locator scheme")
	ErrUnknownFormat = errors.New("cannot determine audio format")
	ErrHTTPStatus    = errors.New("unexpected HTTP status")
)

// TrackError ties a failure to the locator it happened on. Kind is ErrLoad
// or ErrDecode; errors.Is matches both Kind and the underlying cause.
type TrackError struct {
	Locator string
	Kind    error
	Err     error
}

func (e *TrackError) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Locator, e.Err)
}

func (e *TrackError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func loadError(locator string, err error) error {
	return &TrackError{Locator: locator, Kind: ErrLoad, Err: err}
}

func decodeError(locator string, err error) error {
	return &TrackError{Locator: locator, Kind: ErrDecode, Err: err}
}
