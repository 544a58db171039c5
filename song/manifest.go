// SPDX-License-Identifier: EPL-2.0

package song

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/ik5/stagemix/engine"
	"github.com/ik5/stagemix/mixer"
)

// Song is a parsed manifest.
type Song struct {
	Title  string
	Pitch  int
	Tracks []engine.TrackDescriptor
}

type manifest struct {
	Title  string          `json:"title"`
	Pitch  int             `json:"pitch"`
	Tracks []trackManifest `json:"tracks"`
}

type trackManifest struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Source      string       `json:"source"`
	Volume      *float64     `json:"volume"`
	Balance     float64      `json:"balance"`
	Muted       bool         `json:"muted"`
	Solo        bool         `json:"solo"`
	MuteRegions [][2]float64 `json:"muteRegions"`
}

// Load reads the manifest at path. Relative track paths are resolved
// against the manifest's directory.
func Load(path string) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return Parse(f, filepath.Dir(abs))
}

// Parse decodes a manifest. baseDir, when set, anchors relative paths.
func Parse(r io.Reader, baseDir string) (*Song, error) {
	var m manifest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if len(m.Tracks) == 0 {
		return nil, ErrNoTracks
	}

	s := &Song{Title: m.Title, Pitch: m.Pitch}
	for i, t := range m.Tracks {
		d := engine.TrackDescriptor{
			ID:      t.ID,
			Name:    t.Name,
			Source:  resolve(baseDir, t.Source),
			Volume:  100,
			Balance: t.Balance,
			Muted:   t.Muted,
			Solo:    t.Solo,
		}
		if d.ID == "" {
			d.ID = fmt.Sprintf("track-%d", i+1)
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		if t.Volume != nil {
			d.Volume = *t.Volume
		}
		for _, r := range t.MuteRegions {
			d.MuteRegions = append(d.MuteRegions, mixer.Region{Start: r[0], End: r[1]})
		}
		s.Tracks = append(s.Tracks, d)
	}

	return s, nil
}

func resolve(baseDir, source string) string {
	if baseDir == "" || source == "" || filepath.IsAbs(source) {
		return source
	}
	if u, err := url.Parse(source); err == nil && len(u.Scheme) > 1 {
		return source
	}
	return filepath.Join(baseDir, source)
}
