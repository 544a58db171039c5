// SPDX-License-Identifier: EPL-2.0

// Package logger builds the zap logger handed to every component. There is
// no package level logger; components default to zap.NewNop.
package logger
