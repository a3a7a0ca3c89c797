package formats

import (
	"errors"

	"github.com/Faultbox/qtmdl/pkg/datasync"
)

// Load and save errors. Callers match them with errors.Is; the wrapped
// message carries the detail.
var (
	// ErrUnsupportedFormat reports a bad magic, an unknown version or an
	// unknown format tag.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrMalformedStream reports truncated input, an out-of-range index or
	// an implausible count. It is the same sentinel the native format's
	// serializer returns.
	ErrMalformedStream = datasync.ErrMalformedStream

	// ErrUnwritableFormat reports a save to a format without an encoder, or
	// a model the encoder cannot represent.
	ErrUnwritableFormat = errors.New("format cannot be written")

	// ErrMissingTexture marks a skin whose pixels could not be found. It
	// never fails a load; the loader logs it.
	ErrMissingTexture = errors.New("missing texture")
)
