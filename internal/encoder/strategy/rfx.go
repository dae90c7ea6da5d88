package strategy

import (
	"fmt"

	"github.com/rcarmo/go-rdp/internal/encoder"
)

// NewRFX builds the legacy (non-GFX) surface RemoteFX strategy: one
// codec session covering the whole screen, fed every Job's dirty and
// codec rectangles. maxCompressedBytes bounds each pass's output
// buffer and comes from the encoder's negotiated Config; connType picks
// the quantization table tier the way codec-session construction does
// (§6.A: ULQ for modem/broadband-low/satellite, LQ for broadband-high/WAN,
// STD otherwise).
func NewRFX(f RFXFactory, width, height, maxCompressedBytes int, connType encoder.ConnectionType) (encoder.StrategyFunc, error) {
	enc, err := f.New(width, height, 0)
	if err != nil {
		return nil, fmt.Errorf("strategy: create rfx session: %w", err)
	}
	quant := QuantForConnection(connType)

	return func(pub encoder.Publisher, job encoder.Job) error {
		if job.IsGFX() || job.Capture == nil {
			return fmt.Errorf("strategy: rfx received non-capture job")
		}

		payload := job.Capture
		tiles := make([]Tile, 0, len(payload.CRects))
		for _, r := range payload.CRects {
			if r.W <= 0 || r.H <= 0 {
				return fmt.Errorf("strategy: rfx tile %+v: %w", r, errRectTooSmall)
			}
			tiles = append(tiles, Tile{Rect: r, QuantY: quantIdxY, QuantCb: quantIdxCb, QuantCr: quantIdxCr})
		}

		written := 0
		pass := 0
		for {
			remaining := tiles[written:]
			if len(remaining) == 0 || len(payload.DRects) == 0 {
				break
			}

			dst := make([]byte, maxCompressedBytes+surfCmdPrefixBytes)
			keyFrame := job.Flags.Has(encoder.FlagKeyFrameRequested) && pass == 0

			tilesWritten, outBytes, err := enc.Encode(dst[surfCmdPrefixBytes:], payload.Data,
				payload.Width, payload.Height, alignUp64(payload.Width)*4,
				payload.DRects, remaining, quant, numQuantTables, keyFrame)
			pass++

			result := encoder.Result{
				CompPadData:  dst,
				PadBytes:     surfCmdPrefixBytes,
				X:            payload.Left,
				Y:            payload.Top,
				CX:           payload.Width,
				CY:           payload.Height,
				FrameID:      payload.FrameID,
				GotFrameID:   true,
				Continuation: written > 0,
			}

			if err != nil {
				result.Last = true
				pub.Publish(result)
				return fmt.Errorf("strategy: rfx encode: %w", err)
			}

			if tilesWritten > 0 {
				result.CompBytes = outBytes
				written += tilesWritten
			}

			finished := written == len(tiles) || tilesWritten < 0
			result.Last = finished

			if finished {
				pub.Publish(result)
				return nil
			}
			pub.PublishSilent(result)
		}

		// No tiles or no dirty rects at all: still ack with an empty Result
		// so the caller doesn't stall waiting for one.
		pub.Publish(encoder.Result{
			X: payload.Left, Y: payload.Top, CX: payload.Width, CY: payload.Height,
			FrameID: payload.FrameID, GotFrameID: true, Last: true,
		})
		return nil
	}, nil
}

func alignUp64(v int) int {
	return (v + 63) &^ 63
}
