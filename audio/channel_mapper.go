// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper adapts a source to a fixed output channel count.
//
// Mono sources are copied to every output channel. Sources with more channels
// than the output fold channel i into output i%out and average each output by
// the number of inputs it received. Equal counts pass through untouched.
type ChannelMapper struct {
	src    Source
	out    int
	tmp    []float32
	weight []float32
}

func NewChannelMapper(src Source, channels int) *ChannelMapper {
	in := src.Channels()
	weight := make([]float32, channels)
	if in > 1 && channels > 0 {
		counts := make([]int, channels)
		for c := range in {
			counts[c%channels]++
		}
		for i, n := range counts {
			if n > 0 {
				weight[i] = 1 / float32(n)
			}
		}
	}

	return &ChannelMapper{
		src:    src,
		out:    channels,
		tmp:    make([]float32, 4096),
		weight: weight,
	}
}

// MapChannels returns src unchanged when it already has the wanted channel count.
func MapChannels(src Source, channels int) Source {
	if src.Channels() == channels {
		return src
	}
	return NewChannelMapper(src, channels)
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.out }
func (m *ChannelMapper) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMapper) Frames() int64 {
	if l, ok := m.src.(Lengther); ok {
		return l.Frames()
	}
	return 0
}

func (m *ChannelMapper) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if m.out <= 0 {
		return 0, ErrNoChannels
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}

	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	needed := frames * in

	// Grow tmp but never shrink it
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, max(needed, 8192))
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / in

	if in == 1 {
		for f := range got {
			v := m.tmp[f]
			base := f * m.out
			for c := range m.out {
				dst[base+c] = v
			}
		}
		return got * m.out, err
	}

	for f := range got {
		base := f * m.out
		for c := range m.out {
			dst[base+c] = 0
		}
		srcBase := f * in
		for c := range in {
			dst[base+c%m.out] += m.tmp[srcBase+c]
		}
		for c := range m.out {
			dst[base+c] *= m.weight[c]
		}
	}

	return got * m.out, err
}
