// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry maps format keys ("wav", "mp3", "ogg", ...) and their aliases
// ("wave", "aif", "oga", ...) to decoders. Names are case-insensitive and
// the zero value is ready to use.
type Registry struct {
	mtx     sync.RWMutex
	codecs  map[string]Decoder
	aliases map[string]string
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register installs d under format and any aliases, replacing earlier
// registrations of the same names.
func (r *Registry) Register(format string, d Decoder, aliases ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.codecs == nil {
		r.codecs = make(map[string]Decoder)
		r.aliases = make(map[string]string)
	}

	format = strings.ToLower(format)
	r.codecs[format] = d
	delete(r.aliases, format)
	for _, a := range aliases {
		r.aliases[strings.ToLower(a)] = format
	}
}

// Lookup resolves name, which may be an alias, to its canonical format key
// and decoder.
func (r *Registry) Lookup(name string) (string, Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	name = strings.ToLower(name)
	if canon, ok := r.aliases[name]; ok {
		name = canon
	}
	d, ok := r.codecs[name]
	if !ok {
		return "", nil, false
	}

	return name, d, true
}

func (r *Registry) Get(format string) (Decoder, bool) {
	_, d, ok := r.Lookup(format)
	return d, ok
}

// Formats lists the canonical format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return slices.Sorted(maps.Keys(r.codecs))
}
