// SPDX-License-Identifier: EPL-2.0

// Package output plays engine audio on the system sound device through oto.
//
//	dev := output.New(output.Options{SampleRate: 44100})
//	e := engine.New(opts, dev, log)
package output
