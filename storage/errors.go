// SPDX-License-Identifier: EPL-2.0

package storage

import "errors"

var (
	ErrInvalidLocator = errors.New("invalid object locator")
	ErrNotConfigured  = errors.New("object storage endpoint not configured")
)
