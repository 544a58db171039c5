// SPDX-License-Identifier: EPL-2.0

// Package cache keeps fetched track bytes in Redis so that reloading a
// song, or loading the same stem in another song, skips the network.
package cache
