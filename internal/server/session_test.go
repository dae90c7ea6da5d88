package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/stretchr/testify/require"
)

func jpegCaps() encoder.ClientCapabilities {
	return encoder.ClientCapabilities{
		BPP:            32,
		ConnectionType: encoder.ConnectionLAN,
		JPEGCodecID:    7,
		JPEGProperties: []byte{75},
		ScreenWidth:    64,
		ScreenHeight:   48,
	}
}

func TestNewSession_SelectsJPEG(t *testing.T) {
	server, _ := net.Pipe()
	defer server.Close()

	sess, err := NewSession(server, jpegCaps())
	require.NoError(t, err)
	defer sess.Close()

	require.EqualValues(t, 7, sess.enc.CodecID())
}

func TestNewSession_RejectsUnsupportedCapabilities(t *testing.T) {
	server, _ := net.Pipe()
	defer server.Close()

	_, err := NewSession(server, encoder.ClientCapabilities{BPP: 16})
	require.ErrorIs(t, err, encoder.ErrNoEncoder)
}

func TestSession_RunWritesSurfaceUpdateForEnqueuedFrame(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sess, err := NewSession(server, jpegCaps())
	require.NoError(t, err)
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sess.Run(ctx)

	require.NoError(t, sess.Enqueue(encoder.Job{
		Capture: &encoder.CapturePayload{
			Data:   bgraFrame(64, 48),
			Width:  64,
			Height: 48,
			CRects: []encoder.Rect{{X: 0, Y: 0, W: 64, H: 48}},
		},
	}))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, err := client.Read(buf)
	require.NoError(t, err)
	require.Greater(t, n, 0)
	require.Equal(t, byte(0x00), buf[0])
}
