// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bufio"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/ik5/stagemix/audio"
	"github.com/ik5/stagemix/formats/aiff"
	"github.com/ik5/stagemix/formats/mp3"
	"github.com/ik5/stagemix/formats/vorbis"
	"github.com/ik5/stagemix/formats/wav"
)

// DefaultRegistry knows every format the engine ships with.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{}, "wave")
	reg.Register("aiff", aiff.Decoder{}, "aif", "aifc")
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{}, "oga", "vorbis")

	return reg
}

// formatFromLocator returns the registered format implied by the locator's
// extension, or "" when the extension is missing or unknown.
func formatFromLocator(reg *audio.Registry, locator string) string {
	p := locator
	if u, err := url.Parse(locator); err == nil && len(u.Scheme) > 1 {
		p = u.Path
	}

	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return ""
	}
	format, _, _ := reg.Lookup(ext)

	return format
}

// resolveFormat picks a decoder from the extension, falling back to the
// leading bytes. The returned reader must be used instead of r, since
// sniffing consumes a buffered prefix.
func resolveFormat(reg *audio.Registry, locator string, r io.Reader) (string, audio.Decoder, io.Reader, error) {
	if format, dec, ok := reg.Lookup(formatFromLocator(reg, locator)); ok {
		return format, dec, r, nil
	}

	br := bufio.NewReader(r)
	header, err := br.Peek(audio.SniffLen)
	if err != nil && len(header) == 0 {
		if err == io.EOF {
			return "", nil, nil, ErrUnknownFormat
		}
		return "", nil, nil, err
	}

	format := audio.Sniff(header)
	if dec, ok := reg.Get(format); ok {
		return format, dec, br, nil
	}

	return "", nil, nil, ErrUnknownFormat
}
