// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrOnlyPCMSupported     = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth  = errors.New("unsupported WAV bit depth")
	ErrUnsupportedWavChunks = errors.New("unsupported WAV chunks")
	ErrCorruptData          = errors.New("corrupt WAV sample data")
	ErrInvalidChannels      = errors.New("channel count must be positive and divide the sample count")
	ErrTooLong              = errors.New("too much audio for a single WAV file")
)
