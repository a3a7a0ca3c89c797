// Package datasync implements a versioned binary serializer in which a single
// field list both writes and reads a structure graph. The direction is chosen
// when the Stream is created; aggregates describe their layout once in a Sync
// method and the same call serves encoding and decoding.
//
// Field order inside every Sync call is the wire order. Changing it requires
// a version bump; the version is available to every Sync as Stream.Version.
package datasync

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrMalformedStream is returned when the input is truncated or a length or
// count implies more data than remains.
var ErrMalformedStream = errors.New("malformed stream")

var order = binary.BigEndian

// Syncer is implemented by every aggregate stored through a Stream.
type Syncer interface {
	Sync(s *Stream) error
}

// Source is a byte source that knows how much data remains, which lets the
// reader reject impossible lengths before allocating.
type Source interface {
	io.Reader
	Len() int
}

// Stream carries the direction, the format version and the first error.
// Once an error is recorded every later field is a no-op.
type Stream struct {
	Version int32

	r       Source
	w       io.Writer
	err     error
	scratch [8]byte
}

// NewReader returns a Stream that fills fields from r.
func NewReader(r Source, version int32) *Stream {
	return &Stream{Version: version, r: r}
}

// NewWriter returns a Stream that emits fields to w.
func NewWriter(w io.Writer, version int32) *Stream {
	return &Stream{Version: version, w: w}
}

// Reading reports whether the stream decodes into its fields.
func (s *Stream) Reading() bool {
	return s.r != nil
}

// Err returns the first error encountered.
func (s *Stream) Err() error {
	return s.err
}

// Sync processes fields in order and returns the sticky error.
func (s *Stream) Sync(fields ...Field) error {
	for _, f := range fields {
		if s.err != nil {
			break
		}
		f.sync(s)
	}
	return s.err
}

func (s *Stream) fail(format string, args ...any) {
	if s.err == nil {
		s.err = fmt.Errorf("%w: %s", ErrMalformedStream, fmt.Sprintf(format, args...))
	}
}

func (s *Stream) read(n int) []byte {
	if s.err != nil {
		return nil
	}
	if n > s.r.Len() {
		s.fail("need %d bytes, %d remain", n, s.r.Len())
		return nil
	}
	var buf []byte
	if n <= len(s.scratch) {
		buf = s.scratch[:n]
	} else {
		buf = make([]byte, n)
	}
	if _, err := io.ReadFull(s.r, buf); err != nil {
		s.fail("reading %d bytes: %v", n, err)
		return nil
	}
	return buf
}

func (s *Stream) write(b []byte) {
	if s.err != nil {
		return
	}
	if _, err := s.w.Write(b); err != nil {
		s.err = fmt.Errorf("writing: %w", err)
	}
}

// readCount reads a length prefix and checks it against the remaining input,
// given that every element occupies at least minSize bytes.
func (s *Stream) readCount(minSize int) (int, bool) {
	b := s.read(8)
	if b == nil {
		return 0, false
	}
	n := order.Uint64(b)
	if n > uint64(s.r.Len()/minSize) {
		s.fail("count %d exceeds remaining %d bytes", n, s.r.Len())
		return 0, false
	}
	return int(n), true
}

func (s *Stream) writeCount(n int) {
	s.write(order.AppendUint64(s.scratch[:0], uint64(n)))
}

// Field is one entry of a Sync field list. The set of field kinds is closed;
// values are built with the constructors in this package.
type Field interface {
	sync(s *Stream)
}

type fieldFunc func(s *Stream)

func (f fieldFunc) sync(s *Stream) { f(s) }

// Object delegates to an aggregate's own Sync method.
func Object(v Syncer) Field {
	return fieldFunc(func(s *Stream) {
		if err := v.Sync(s); err != nil && s.err == nil {
			s.err = err
		}
	})
}

// Group inlines a list of fields as one field.
func Group(fields ...Field) Field {
	return fieldFunc(func(s *Stream) {
		_ = s.Sync(fields...)
	})
}

// Bool syncs a boolean as one byte.
func Bool(v *bool) Field {
	return fieldFunc(func(s *Stream) {
		if s.Reading() {
			if b := s.read(1); b != nil {
				*v = b[0] != 0
			}
			return
		}
		var b byte
		if *v {
			b = 1
		}
		s.write(append(s.scratch[:0], b))
	})
}

// Uint8 syncs a single byte.
func Uint8(v *uint8) Field {
	return fieldFunc(func(s *Stream) {
		if s.Reading() {
			if b := s.read(1); b != nil {
				*v = b[0]
			}
			return
		}
		s.write(append(s.scratch[:0], *v))
	})
}

// Int32 syncs a signed 32-bit integer.
func Int32(v *int32) Field {
	return fieldFunc(func(s *Stream) {
		if s.Reading() {
			if b := s.read(4); b != nil {
				*v = int32(order.Uint32(b))
			}
			return
		}
		s.write(order.AppendUint32(s.scratch[:0], uint32(*v)))
	})
}

// Uint32 syncs an unsigned 32-bit integer.
func Uint32(v *uint32) Field {
	return fieldFunc(func(s *Stream) {
		if s.Reading() {
			if b := s.read(4); b != nil {
				*v = order.Uint32(b)
			}
			return
		}
		s.write(order.AppendUint32(s.scratch[:0], *v))
	})
}

// Float32 syncs an IEEE-754 single.
func Float32(v *float32) Field {
	return fieldFunc(func(s *Stream) {
		if s.Reading() {
			if b := s.read(4); b != nil {
				*v = math.Float32frombits(order.Uint32(b))
			}
			return
		}
		s.write(order.AppendUint32(s.scratch[:0], math.Float32bits(*v)))
	})
}

// String syncs text as a byte length followed by the raw bytes.
func String(v *string) Field {
	return fieldFunc(func(s *Stream) {
		if s.Reading() {
			n, ok := s.readCount(1)
			if !ok {
				return
			}
			if b := s.read(n); b != nil {
				*v = string(b)
			}
			return
		}
		s.writeCount(len(*v))
		s.write([]byte(*v))
	})
}

// Bytes syncs a byte sequence as a count followed by the raw bytes.
func Bytes(v *[]byte) Field {
	return fieldFunc(func(s *Stream) {
		if s.Reading() {
			n, ok := s.readCount(1)
			if !ok {
				return
			}
			if b := s.read(n); b != nil {
				*v = append(make([]byte, 0, n), b...)
			}
			return
		}
		s.writeCount(len(*v))
		s.write(*v)
	})
}

// Array syncs a fixed-size sequence element by element. No length is stored.
func Array[T any](v []T, elem func(*T) Field) Field {
	return fieldFunc(func(s *Stream) {
		for i := range v {
			if s.err != nil {
				return
			}
			elem(&v[i]).sync(s)
		}
	})
}

// Optional syncs a presence flag and, when set, the value. On read a nil
// pointer is stored for an absent value.
func Optional[T any](v **T, elem func(*T) Field) Field {
	return fieldFunc(func(s *Stream) {
		present := *v != nil
		Bool(&present).sync(s)
		if s.err != nil {
			return
		}
		if !s.Reading() {
			if present {
				elem(*v).sync(s)
			}
			return
		}
		if !present {
			*v = nil
			return
		}
		val := new(T)
		elem(val).sync(s)
		if s.err == nil {
			*v = val
		}
	})
}

// Slice syncs a dynamic sequence as a count followed by each element. On read
// the destination is resized to the stored count.
func Slice[T any](v *[]T, elem func(*T) Field) Field {
	return fieldFunc(func(s *Stream) {
		if !s.Reading() {
			s.writeCount(len(*v))
			for i := range *v {
				if s.err != nil {
					return
				}
				elem(&(*v)[i]).sync(s)
			}
			return
		}
		n, ok := s.readCount(1)
		if !ok {
			return
		}
		out := make([]T, n)
		for i := range out {
			if s.err != nil {
				return
			}
			elem(&out[i]).sync(s)
		}
		*v = out
	})
}

// Objects syncs a sequence of aggregates.
func Objects[T any, PT interface {
	*T
	Syncer
}](v *[]T) Field {
	return Slice(v, func(e *T) Field { return Object(PT(e)) })
}

// OptionalObject syncs an optional aggregate.
func OptionalObject[T any, PT interface {
	*T
	Syncer
}](v **T) Field {
	return Optional(v, func(e *T) Field { return Object(PT(e)) })
}
