package server

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"
)

func bgraFrame(width, height int) []byte {
	buf := make([]byte, width*height*4)
	for i := 0; i < len(buf); i += 4 {
		buf[i] = 0x10   // B
		buf[i+1] = 0x80 // G
		buf[i+2] = 0xF0 // R
		buf[i+3] = 0xFF // A
	}
	return buf
}

func TestStdlibJPEGCompressor_CompressRectProducesDecodableJPEG(t *testing.T) {
	src := bgraFrame(64, 48)
	dst := make([]byte, 64*1024)

	n, err := (StdlibJPEGCompressor{}).CompressRect(src, 64, 48, 64*4, 0, 0, 32, 16, 85, dst)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	img, err := jpeg.Decode(bytes.NewReader(dst[:n]))
	require.NoError(t, err)
	require.Equal(t, 32, img.Bounds().Dx())
	require.Equal(t, 16, img.Bounds().Dy())
}

func TestStdlibJPEGCompressor_CompressRectRejectsOutOfBounds(t *testing.T) {
	src := bgraFrame(64, 48)
	dst := make([]byte, 1024)

	_, err := (StdlibJPEGCompressor{}).CompressRect(src, 64, 48, 64*4, 50, 40, 32, 16, 85, dst)
	require.Error(t, err)
}

func TestStdlibJPEGCompressor_CompressRectRejectsUndersizedOutput(t *testing.T) {
	src := bgraFrame(256, 256)
	dst := make([]byte, 16)

	_, err := (StdlibJPEGCompressor{}).CompressRect(src, 256, 256, 256*4, 0, 0, 256, 256, 95, dst)
	require.Error(t, err)
}

func TestClampQuality(t *testing.T) {
	require.Equal(t, 1, clampQuality(-5))
	require.Equal(t, 100, clampQuality(500))
	require.Equal(t, 50, clampQuality(50))
}
