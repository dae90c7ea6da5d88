package server

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// StdlibJPEGCompressor implements strategy.JPEGCompressor with the
// standard library's image/jpeg encoder. It is the one codec in this
// repository's whole dependency corpus with a genuine forward (encode)
// implementation available anywhere in reach; RemoteFX and H.264 only
// ever had decoders to lift from, so those strategies stay behind
// unbound interfaces (see DESIGN.md).
type StdlibJPEGCompressor struct{}

// CompressRect converts the w*h sub-rectangle of a BGRA src buffer at
// (x, y) to an image.NRGBA and JPEG-encodes it into dst, returning the
// number of bytes written.
func (StdlibJPEGCompressor) CompressRect(src []byte, srcWidth, srcHeight, srcStride int,
	x, y, w, h, quality int, dst []byte) (int, error) {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > srcWidth || y+h > srcHeight {
		return 0, fmt.Errorf("server: jpeg rect (%d,%d,%d,%d) out of bounds for %dx%d surface", x, y, w, h, srcWidth, srcHeight)
	}
	if srcStride < srcWidth*4 {
		return 0, fmt.Errorf("server: jpeg src stride %d too small for width %d", srcStride, srcWidth)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		srcOff := (y+row)*srcStride + x*4
		dstOff := row * img.Stride
		for col := 0; col < w; col++ {
			b := src[srcOff+col*4]
			g := src[srcOff+col*4+1]
			r := src[srcOff+col*4+2]
			a := src[srcOff+col*4+3]
			img.Pix[dstOff+col*4] = r
			img.Pix[dstOff+col*4+1] = g
			img.Pix[dstOff+col*4+2] = b
			img.Pix[dstOff+col*4+3] = a
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return 0, fmt.Errorf("server: jpeg encode: %w", err)
	}
	if buf.Len() > len(dst) {
		return 0, fmt.Errorf("server: jpeg output %d bytes exceeds %d-byte buffer", buf.Len(), len(dst))
	}
	return copy(dst, buf.Bytes()), nil
}

// clampQuality keeps an out-of-range client-advertised quality byte
// inside what image/jpeg.Options accepts.
func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}
