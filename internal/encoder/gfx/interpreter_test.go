package gfx

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectingPublisher struct {
	results []encoder.Result
}

func (c *collectingPublisher) Publish(r encoder.Result)       { c.results = append(c.results, r) }
func (c *collectingPublisher) PublishSilent(r encoder.Result) { c.results = append(c.results, r) }
func (c *collectingPublisher) Signal()                        {}

// buildCmd frames one RDPGFX command: 8-byte header (cmdID, flags,
// cmdBytes) followed by body.
func buildCmd(cmdID uint16, body []byte) []byte {
	cmdBytes := cmdHeaderBytes + len(body)
	buf := make([]byte, cmdBytes)
	binary.LittleEndian.PutUint16(buf[0:2], cmdID)
	binary.LittleEndian.PutUint16(buf[2:4], 0)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(cmdBytes))
	copy(buf[8:], body)
	return buf
}

func mustPack(t *testing.T, v interface{}) []byte {
	t.Helper()
	out, err := packStruct(v)
	require.NoError(t, err)
	return out
}

func TestRun_RejectsNonGraphicsJob(t *testing.T) {
	ip := NewInterpreter(encoder.ConnectionLAN, testQuant, nil, nil)
	err := ip.Run(&collectingPublisher{}, encoder.Job{Capture: &encoder.CapturePayload{}})
	assert.Error(t, err)
}

func TestRun_MalformedCmdBytesAbortsWithAck(t *testing.T) {
	ip := NewInterpreter(encoder.ConnectionLAN, testQuant, nil, nil)
	pub := &collectingPublisher{}

	// cmdBytes=4 is below the 8-byte header floor.
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], cmdIDCreateSurface)
	binary.LittleEndian.PutUint32(buf[4:8], 4)

	job := encoder.Job{Flags: encoder.FlagGFX, Graphics: &encoder.GraphicsPayload{Cmd: buf}}
	err := ip.Run(pub, job)

	assert.Error(t, err)
	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Last)
	assert.True(t, pub.results[0].Flags.Has(encoder.ResultGFX))
}

func TestRun_CreateThenDeleteSurface(t *testing.T) {
	ip := NewInterpreter(encoder.ConnectionLAN, testQuant, nil, nil)
	pub := &collectingPublisher{}

	create := buildCmd(cmdIDCreateSurface, mustPack(t, &createSurfacePDU{SurfaceID: 1, Width: 800, Height: 600, PixelFormat: 0x20}))
	del := buildCmd(cmdIDDeleteSurface, mustPack(t, &deleteSurfacePDU{SurfaceID: 1}))

	cmd := append(append([]byte{}, create...), del...)
	job := encoder.Job{Flags: encoder.FlagGFX, Graphics: &encoder.GraphicsPayload{Cmd: cmd}}

	require.NoError(t, ip.Run(pub, job))
	require.Len(t, pub.results, 2)
	assert.False(t, pub.results[0].Last)
	assert.True(t, pub.results[1].Last)
	for _, r := range pub.results {
		assert.True(t, r.Flags.Has(encoder.ResultGFX))
	}
}

func TestRun_StartFrameEndFrameCarriesFrameID(t *testing.T) {
	ip := NewInterpreter(encoder.ConnectionLAN, testQuant, nil, nil)
	pub := &collectingPublisher{}

	start := buildCmd(cmdIDStartFrame, mustPack(t, &startFramePDU{FrameID: 7, Timestamp: 1}))
	end := buildCmd(cmdIDEndFrame, mustPack(t, &endFramePDU{FrameID: 7}))

	cmd := append(append([]byte{}, start...), end...)
	job := encoder.Job{Flags: encoder.FlagGFX, Graphics: &encoder.GraphicsPayload{Cmd: cmd}}

	require.NoError(t, ip.Run(pub, job))
	require.Len(t, pub.results, 2)

	last := pub.results[1]
	assert.True(t, last.Last)
	assert.True(t, last.GotFrameID)
	assert.Equal(t, uint32(7), last.FrameID)
}

func TestRun_UnknownCommandIsSkippedSilently(t *testing.T) {
	ip := NewInterpreter(encoder.ConnectionLAN, testQuant, nil, nil)
	pub := &collectingPublisher{}

	unknown := buildCmd(0xBEEF, []byte{1, 2, 3, 4})
	del := buildCmd(cmdIDDeleteSurface, mustPack(t, &deleteSurfacePDU{SurfaceID: 9}))
	cmd := append(append([]byte{}, unknown...), del...)

	job := encoder.Job{Flags: encoder.FlagGFX, Graphics: &encoder.GraphicsPayload{Cmd: cmd}}
	require.NoError(t, ip.Run(pub, job))

	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Last)
}

func TestRun_WireToSurface2MultiPassPublishesIntermediatesThenFinal(t *testing.T) {
	fake := &fakeRFXSession{tilesPerCall: 1}
	ip := NewInterpreter(encoder.ConnectionLAN, testQuant, nil, func(w, h int) RFXSession { return fake })
	pub := &collectingPublisher{}

	var body bytes.Buffer
	hdr := wireToSurface2Header{SurfaceID: 1, CodecID: 3}
	require.NoError(t, packStructInto(&body, &hdr))
	require.NoError(t, packInto(&body, uint16(1)))
	require.NoError(t, packStructInto(&body, &RectWH{Width: 128, Height: 64}))
	require.NoError(t, packInto(&body, uint16(2)))
	for _, r := range []RectWH{{Left: 0, Top: 0, Width: 64, Height: 64}, {Left: 64, Top: 0, Width: 64, Height: 64}} {
		require.NoError(t, packStructInto(&body, &r))
	}
	dims := RectWH{Width: 128, Height: 64}
	require.NoError(t, packStructInto(&body, &dims))

	cmd := buildCmd(cmdIDWireToSurface2, body.Bytes())
	job := encoder.Job{Flags: encoder.FlagGFX, Graphics: &encoder.GraphicsPayload{Cmd: cmd}}

	require.NoError(t, ip.Run(pub, job))

	// one intermediate pass published directly by dispatch's emit closure,
	// plus the final pass published by Run's generic per-command path.
	require.Len(t, pub.results, 2)
	assert.True(t, pub.results[0].Continuation)
	assert.False(t, pub.results[0].Last)
	assert.True(t, pub.results[1].Last)
}
