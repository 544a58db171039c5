// SPDX-License-Identifier: EPL-2.0

package song

import "errors"

var (
	ErrInvalidManifest = errors.New("invalid song manifest")
	ErrNoTracks        = errors.New("song has no tracks")
)
