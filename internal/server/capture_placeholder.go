package server

import (
	"context"
	"time"

	"github.com/rcarmo/go-rdp/internal/encoder"
)

// placeholderFPS bounds how often RunPlaceholderCapture synthesizes a
// frame; there is no real display-capture backend in this repository,
// so this exists only to exercise the encoder/session pipeline
// end-to-end against a live connection.
const placeholderFPS = 2

// RunPlaceholderCapture feeds the session a solid-color full-screen
// frame twice a second until ctx is canceled. It is not a display
// capture pipeline: no such backend exists anywhere in this codebase's
// retrieved corpus (screen capture is inherently platform-specific and
// none of the example repos implement one), so this stands in as the
// minimal synthetic source needed to drive internal/encoder and
// internal/protocol/fastpath from a real running process instead of a
// test harness. A real deployment replaces this with a platform capture
// API wired to the same Session.Enqueue call.
func (s *Session) RunPlaceholderCapture(ctx context.Context) {
	ticker := time.NewTicker(time.Second / placeholderFPS)
	defer ticker.Stop()

	width, height := s.width, s.height
	if width <= 0 || height <= 0 {
		width, height = 1024, 768
	}

	var frameID uint32
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			data := syntheticFrame(width, height, frameID)
			s.loggedEnqueue(encoder.Job{
				Capture: &encoder.CapturePayload{
					Data:   data,
					Width:  width,
					Height: height,
					DRects: []encoder.Rect{{X: 0, Y: 0, W: int16(width), H: int16(height)}},
					CRects: []encoder.Rect{{X: 0, Y: 0, W: int16(width), H: int16(height)}},
					FrameID: frameID,
				},
			})
			frameID++
		}
	}
}

// syntheticFrame produces a BGRA buffer whose solid color cycles by
// frameID, enough to give the codec strategies non-degenerate input.
func syntheticFrame(width, height int, frameID uint32) []byte {
	buf := make([]byte, width*height*4)
	b := byte(frameID * 7)
	g := byte(frameID * 13)
	r := byte(frameID * 29)
	for i := 0; i < len(buf); i += 4 {
		buf[i] = b
		buf[i+1] = g
		buf[i+2] = r
		buf[i+3] = 0xFF
	}
	return buf
}
