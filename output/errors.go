// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrNotReady = errors.New("audio device not ready")
	ErrClosed   = errors.New("audio device closed")
)
