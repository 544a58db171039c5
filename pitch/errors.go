// SPDX-License-Identifier: EPL-2.0

package pitch

import "errors"

// ErrPitchShift reports a buffer that cannot be pitch shifted.
var ErrPitchShift = errors.New("pitch shift failed")
