package encoder

import "errors"

var (
	// ErrNoEncoder is returned by New when no codec strategy applies to
	// the advertised client capabilities; the caller should fall back to
	// an uncompressed bitmap path.
	ErrNoEncoder = errors.New("encoder: no applicable codec for client capabilities")

	// ErrClosed is returned by Enqueue once the encoder has been closed.
	ErrClosed = errors.New("encoder: closed")
)
