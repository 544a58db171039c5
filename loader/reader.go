// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"
	"errors"
	"io"
)

// trackingReader remembers the first transport error seen while a decoder
// reads, so a failed decode can be told apart from a failed read. It also
// stops reads once ctx is cancelled.
type trackingReader struct {
	ctx context.Context
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	if err := t.ctx.Err(); err != nil {
		t.record(err)
		return 0, err
	}

	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		t.record(err)
	}
	return n, err
}

func (t *trackingReader) record(err error) {
	if t.err == nil {
		t.err = err
	}
}

// trackingReadSeeker is a trackingReader over a seekable stream.
type trackingReadSeeker struct {
	*trackingReader
	s io.Seeker
}

func (t *trackingReadSeeker) Seek(offset int64, whence int) (int64, error) {
	return t.s.Seek(offset, whence)
}

func track(ctx context.Context, r io.Reader) (io.Reader, *trackingReader) {
	tr := &trackingReader{ctx: ctx, r: r}
	if s, ok := r.(io.Seeker); ok {
		return &trackingReadSeeker{trackingReader: tr, s: s}, tr
	}
	return tr, tr
}
