package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/qtmdl/pkg/encoding"
	"github.com/Faultbox/qtmdl/pkg/math"
)

// binReader reads little-endian records from an in-memory file. The first
// failure is kept and later reads do nothing.
type binReader struct {
	r   *bytes.Reader
	err error
}

func newBinReader(data []byte) *binReader {
	return &binReader{r: bytes.NewReader(data)}
}

func (b *binReader) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s", ErrMalformedStream, fmt.Sprintf(format, args...))
	}
}

func (b *binReader) pos() int64 {
	return b.r.Size() - int64(b.r.Len())
}

func (b *binReader) size() int64 {
	return b.r.Size()
}

// seek moves to an absolute offset, which must lie inside the file.
func (b *binReader) seek(off int64) {
	if b.err != nil {
		return
	}
	if off < 0 || off > b.r.Size() {
		b.fail("offset %d outside file of %d bytes", off, b.r.Size())
		return
	}
	_, _ = b.r.Seek(off, io.SeekStart)
}

func (b *binReader) read(v any) {
	if b.err != nil {
		return
	}
	at := b.pos()
	if err := binary.Read(b.r, binary.LittleEndian, v); err != nil {
		b.fail("truncated at offset %d", at)
	}
}

func (b *binReader) int32() int32 {
	var v int32
	b.read(&v)
	return v
}

func (b *binReader) float32() float32 {
	var v float32
	b.read(&v)
	return v
}

func (b *binReader) vec3() math.Vec3 {
	var v [3]float32
	b.read(&v)
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func (b *binReader) bytes(n int) []byte {
	if b.err != nil {
		return nil
	}
	if n < 0 || n > b.r.Len() {
		b.fail("need %d bytes at offset %d, %d remain", n, b.pos(), b.r.Len())
		return nil
	}
	buf := make([]byte, n)
	_, _ = io.ReadFull(b.r, buf)
	return buf
}

// name reads a fixed-size NUL-padded name field.
func (b *binReader) name(size int) string {
	return encoding.FixedString(b.bytes(size))
}

// count validates a header count: it must not be negative and count records
// of elemSize bytes must fit in the file.
func (b *binReader) count(n int32, elemSize int, what string) int {
	if b.err != nil {
		return 0
	}
	if n < 0 || int64(n)*int64(elemSize) > b.r.Size() {
		b.fail("%s count %d", what, n)
		return 0
	}
	return int(n)
}

// table validates that n records of elemSize bytes starting at off lie
// inside the file. The offset of an empty table is not checked.
func (b *binReader) table(off int64, n int, elemSize int64, what string) {
	if b.err != nil || n == 0 {
		return
	}
	if off < 0 || off > b.r.Size() || int64(n) > (b.r.Size()-off)/max(elemSize, 1) {
		b.fail("%s table of %d records at offset %d exceeds file of %d bytes", what, n, off, b.r.Size())
	}
}
