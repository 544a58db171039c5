// SPDX-License-Identifier: EPL-2.0

// Package config reads STAGEMIX_* settings from the environment and an
// optional .env file.
package config
