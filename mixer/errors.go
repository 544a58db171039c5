// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	ErrInvalidRegion  = errors.New("invalid mute region")
	ErrDuplicateStrip = errors.New("duplicate strip id")
	ErrEmptyID        = errors.New("strip id must not be empty")
)
