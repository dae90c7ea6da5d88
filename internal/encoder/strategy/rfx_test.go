package strategy

import (
	"errors"
	"testing"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRFXEncoder writes tilesPerCall tiles' worth of dummy output on each
// call, enough calls to need ceil(len(tiles)/tilesPerCall) passes.
type fakeRFXEncoder struct {
	tilesPerCall int
	failOn       int // call index (0-based) to fail; -1 disables
	negativeOn   int // call index to return tilesWritten=-1; -1 disables
	calls        int
}

func (f *fakeRFXEncoder) Encode(dst, src []byte, width, height, stride int,
	dirty []encoder.Rect, tiles []Tile, quant []byte, numQuant int, keyFrame bool) (int, int, error) {
	idx := f.calls
	f.calls++

	if idx == f.failOn {
		return 0, 0, errors.New("encode failed")
	}
	if idx == f.negativeOn {
		return -1, 0, nil
	}

	n := f.tilesPerCall
	if n > len(tiles) {
		n = len(tiles)
	}
	for i := 0; i < 4 && i < len(dst); i++ {
		dst[i] = byte(i + 1)
	}
	return n, 4, nil
}

func (f *fakeRFXEncoder) Close() {}

type fakeRFXFactory struct {
	enc *fakeRFXEncoder
	err error
}

func (f *fakeRFXFactory) New(width, height int, proFlags uint32) (RFXEncoder, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.enc, nil
}

func capturePayloadWithTiles(n int) *encoder.CapturePayload {
	rects := make([]encoder.Rect, n)
	for i := range rects {
		rects[i] = encoder.Rect{X: int16(i * 64), Y: 0, W: 64, H: 64}
	}
	return &encoder.CapturePayload{
		Data:   make([]byte, 2048*2048*4),
		Width:  2048,
		Height: 2048,
		DRects: []encoder.Rect{{X: 0, Y: 0, W: 2048, H: 2048}},
		CRects: rects,
	}
}

func TestNewRFX_SinglePassWhenAllTilesFit(t *testing.T) {
	enc := &fakeRFXEncoder{tilesPerCall: 100, failOn: -1, negativeOn: -1}
	fn, err := NewRFX(&fakeRFXFactory{enc: enc}, 2048, 2048, 65536, encoder.ConnectionLAN)
	require.NoError(t, err)

	pub := &collectingPublisher{}
	job := encoder.Job{Capture: capturePayloadWithTiles(4)}

	require.NoError(t, fn(pub, job))
	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Last)
	assert.False(t, pub.results[0].Continuation)
}

func TestNewRFX_MultiPassFragmentation(t *testing.T) {
	// 2048 tiles, 100 per call -> needs multiple passes.
	enc := &fakeRFXEncoder{tilesPerCall: 100, failOn: -1, negativeOn: -1}
	fn, err := NewRFX(&fakeRFXFactory{enc: enc}, 2048, 2048, 65536, encoder.ConnectionLAN)
	require.NoError(t, err)

	pub := &collectingPublisher{}
	job := encoder.Job{Capture: capturePayloadWithTiles(2048)}

	require.NoError(t, fn(pub, job))
	require.GreaterOrEqual(t, len(pub.results), 2)

	for i, r := range pub.results {
		if i == 0 {
			assert.False(t, r.Continuation)
		} else {
			assert.True(t, r.Continuation)
		}
	}
	last := pub.results[len(pub.results)-1]
	assert.True(t, last.Last)
	for _, r := range pub.results[:len(pub.results)-1] {
		assert.False(t, r.Last)
	}
}

func TestNewRFX_NegativeTilesWrittenEndsWithAckOnly(t *testing.T) {
	enc := &fakeRFXEncoder{tilesPerCall: 100, failOn: -1, negativeOn: 0}
	fn, err := NewRFX(&fakeRFXFactory{enc: enc}, 2048, 2048, 65536, encoder.ConnectionLAN)
	require.NoError(t, err)

	pub := &collectingPublisher{}
	job := encoder.Job{Capture: capturePayloadWithTiles(4)}

	require.NoError(t, fn(pub, job))
	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Last)
}

func TestNewRFX_EncodeErrorPublishesFinalAckAndReturnsErr(t *testing.T) {
	enc := &fakeRFXEncoder{tilesPerCall: 100, failOn: 0}
	fn, err := NewRFX(&fakeRFXFactory{enc: enc}, 2048, 2048, 65536, encoder.ConnectionLAN)
	require.NoError(t, err)

	pub := &collectingPublisher{}
	job := encoder.Job{Capture: capturePayloadWithTiles(4)}

	err = fn(pub, job)
	assert.Error(t, err)
	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Last)
}

func TestNewRFX_NoDirtyRectsAcksImmediately(t *testing.T) {
	enc := &fakeRFXEncoder{tilesPerCall: 100}
	fn, err := NewRFX(&fakeRFXFactory{enc: enc}, 2048, 2048, 65536, encoder.ConnectionLAN)
	require.NoError(t, err)

	pub := &collectingPublisher{}
	payload := capturePayloadWithTiles(4)
	payload.DRects = nil
	job := encoder.Job{Capture: payload}

	require.NoError(t, fn(pub, job))
	require.Len(t, pub.results, 1)
	assert.True(t, pub.results[0].Last)
	assert.Equal(t, 0, pub.results[0].CompBytes)
}

func TestNewRFX_RejectsZeroSizedTile(t *testing.T) {
	enc := &fakeRFXEncoder{tilesPerCall: 100}
	fn, err := NewRFX(&fakeRFXFactory{enc: enc}, 2048, 2048, 65536, encoder.ConnectionLAN)
	require.NoError(t, err)

	pub := &collectingPublisher{}
	payload := capturePayloadWithTiles(1)
	payload.CRects[0].W = 0
	job := encoder.Job{Capture: payload}

	err = fn(pub, job)
	assert.ErrorIs(t, err, errRectTooSmall)
}

func TestNewRFX_FactoryErrorPropagates(t *testing.T) {
	_, err := NewRFX(&fakeRFXFactory{err: errors.New("no codec")}, 2048, 2048, 65536, encoder.ConnectionLAN)
	assert.Error(t, err)
}
