// Package strategy implements the codec-specific StrategyFunc values that
// an encoder.Encoder dispatches Jobs to once a codec has been selected:
// JPEG, RemoteFX, and the legacy H.264 path that the underlying codec
// library never finished wiring up server-side.
package strategy

import "github.com/rcarmo/go-rdp/internal/encoder"

// JPEGCompressor compresses one dirty rectangle of a BGRA framebuffer
// into a caller-supplied output buffer, returning the bytes written.
type JPEGCompressor interface {
	CompressRect(src []byte, srcWidth, srcHeight, srcStride int,
		x, y, w, h, quality int, dst []byte) (int, error)
}

// Tile describes one RemoteFX codec tile: its screen-space rectangle plus
// the quantization table index to use for each YCbCr component.
type Tile struct {
	Rect                   encoder.Rect
	QuantY, QuantCb, QuantCr uint8
}

// RFXEncoder is a single RemoteFX encode session bound to one surface
// size and pixel format. It may need several calls to emit all of a
// frame's tiles when the compressed output would otherwise exceed the
// caller's byte budget (a "pass").
type RFXEncoder interface {
	// Encode compresses as many of tiles (in order) as fit within
	// len(dst), returning the tiles actually written. A return of 0
	// with a nil error means nothing more fits and the caller should
	// stop calling Encode for this frame.
	Encode(dst []byte, src []byte, width, height, stride int,
		dirty []encoder.Rect, tiles []Tile,
		quant []byte, numQuant int, keyFrame bool) (tilesWritten int, outBytes int, err error)
	Close()
}

// RFXFactory creates an RFXEncoder for a given surface size and pixel
// format, mirroring rfxcodec_encode_create's signature.
type RFXFactory interface {
	New(width, height int, proFlags uint32) (RFXEncoder, error)
}

// H264Encoder is a single H.264 encode session bound to one monitor's
// GFX surface.
type H264Encoder interface {
	Encode(dst []byte, src []byte, width, height, twidth, theight int,
		crects []encoder.Rect, connectionType encoder.ConnectionType) (int, error)
	Close()
}

// H264Factory creates an H264Encoder on first use for a given monitor.
type H264Factory interface {
	New() (H264Encoder, error)
}
