package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/qtmdl/pkg/datasync"
	"github.com/Faultbox/qtmdl/pkg/model"
)

// QIM header constants. The header is two big-endian int32 values in front
// of the serialized model graph.
const (
	QIMMagic   int32 = 'M'<<24 | 'I'<<16 | 'T'<<8 | 'Q'
	QIMVersion int32 = 1
)

// DecodeQIM reads a model in the native format.
func DecodeQIM(data []byte) (*model.Model, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: qim header needs 8 bytes, have %d", ErrMalformedStream, len(data))
	}
	magic := int32(binary.BigEndian.Uint32(data[0:4]))
	version := int32(binary.BigEndian.Uint32(data[4:8]))
	if magic != QIMMagic {
		return nil, fmt.Errorf("%w: qim magic %#08x", ErrUnsupportedFormat, uint32(magic))
	}
	if version < 1 || version > QIMVersion {
		return nil, fmt.Errorf("%w: qim version %d, newest supported is %d", ErrUnsupportedFormat, version, QIMVersion)
	}

	m := &model.Model{}
	r := bytes.NewReader(data[8:])
	if err := m.Sync(datasync.NewReader(r, version)); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes after the model graph", ErrMalformedStream, r.Len())
	}
	return m, nil
}

// EncodeQIM writes m in the native format at the current version.
func EncodeQIM(w io.Writer, m *model.Model) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(QIMMagic))
	binary.BigEndian.PutUint32(header[4:8], uint32(QIMVersion))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing qim header: %w", err)
	}
	return m.Sync(datasync.NewWriter(w, QIMVersion))
}
