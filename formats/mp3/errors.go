// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

var (
	ErrInvalidData = errors.New("invalid MP3 data")
	ErrDecode      = errors.New("MP3 frame decode failed")
)
