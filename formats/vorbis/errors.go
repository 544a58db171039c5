// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	ErrInvalidData = errors.New("invalid Ogg Vorbis data")
	ErrDecode      = errors.New("vorbis packet decode failed")
)
