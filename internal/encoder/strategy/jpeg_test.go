package strategy

import (
	"errors"
	"testing"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJPEGCompressor struct {
	failOn  int // rect index that returns an error; -1 disables
	written int
	calls   int
}

func (f *fakeJPEGCompressor) CompressRect(src []byte, srcWidth, srcHeight, srcStride, x, y, w, h, quality int, dst []byte) (int, error) {
	idx := f.calls
	f.calls++
	if idx == f.failOn {
		return 0, errors.New("boom")
	}
	n := f.written
	if n == 0 {
		n = 16
	}
	for i := 0; i < n; i++ {
		dst[i] = byte(i)
	}
	return n, nil
}

type collectingPublisher struct {
	results []encoder.Result
}

func (c *collectingPublisher) Publish(r encoder.Result)       { c.results = append(c.results, r) }
func (c *collectingPublisher) PublishSilent(r encoder.Result) { c.results = append(c.results, r) }
func (c *collectingPublisher) Signal()                        {}

func TestNewJPEG_SingleRect(t *testing.T) {
	fn := NewJPEG(&fakeJPEGCompressor{failOn: -1}, 75)
	pub := &collectingPublisher{}

	job := encoder.Job{Capture: &encoder.CapturePayload{
		Data:   make([]byte, 64*64*4),
		Width:  64,
		Height: 64,
		CRects: []encoder.Rect{{X: 0, Y: 0, W: 64, H: 64}},
	}}

	require.NoError(t, fn(pub, job))
	require.Len(t, pub.results, 1)

	r := pub.results[0]
	assert.True(t, r.Last)
	assert.Equal(t, surfCmdPrefixBytes, r.PadBytes)
	assert.GreaterOrEqual(t, r.CompBytes, 2)
	assert.Equal(t, 0, r.X)
	assert.Equal(t, 0, r.Y)
	assert.Equal(t, 64, r.CX)
	assert.Equal(t, 64, r.CY)
}

func TestNewJPEG_MultiRectOnlyLastIsLast(t *testing.T) {
	fn := NewJPEG(&fakeJPEGCompressor{failOn: -1}, 50)
	pub := &collectingPublisher{}

	job := encoder.Job{Capture: &encoder.CapturePayload{
		Data:   make([]byte, 128*128*4),
		Width:  128,
		Height: 128,
		CRects: []encoder.Rect{
			{X: 0, Y: 0, W: 64, H: 64},
			{X: 64, Y: 0, W: 64, H: 64},
		},
	}}

	require.NoError(t, fn(pub, job))
	require.Len(t, pub.results, 2)
	assert.False(t, pub.results[0].Last)
	assert.True(t, pub.results[1].Last)
}

func TestNewJPEG_SkipsEmptyRects(t *testing.T) {
	fn := NewJPEG(&fakeJPEGCompressor{failOn: -1}, 50)
	pub := &collectingPublisher{}

	job := encoder.Job{Capture: &encoder.CapturePayload{
		Data:   make([]byte, 64*64*4),
		Width:  64,
		Height: 64,
		CRects: []encoder.Rect{{X: 0, Y: 0, W: 0, H: 0}},
	}}

	require.NoError(t, fn(pub, job))
	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Last)
	assert.Equal(t, 0, pub.results[0].CompBytes)
}

func TestNewJPEG_CompressorErrorEmitsSafetyAck(t *testing.T) {
	fn := NewJPEG(&fakeJPEGCompressor{failOn: 0}, 50)
	pub := &collectingPublisher{}

	job := encoder.Job{Capture: &encoder.CapturePayload{
		Data:   make([]byte, 64*64*4),
		Width:  64,
		Height: 64,
		CRects: []encoder.Rect{{X: 0, Y: 0, W: 64, H: 64}},
	}}

	err := fn(pub, job)
	require.Error(t, err)
	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Last)
	assert.Equal(t, 0, pub.results[0].CompBytes)
}

func TestNewJPEG_RejectsGFXJob(t *testing.T) {
	fn := NewJPEG(&fakeJPEGCompressor{failOn: -1}, 50)
	pub := &collectingPublisher{}

	err := fn(pub, encoder.Job{Flags: encoder.FlagGFX, Graphics: &encoder.GraphicsPayload{}})
	assert.Error(t, err)
}
