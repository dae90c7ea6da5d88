package strategy

import (
	"fmt"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/rcarmo/go-rdp/internal/logging"
)

// surfCmdPrefixBytes reserves room for the transport to prepend a
// surface command header in place, without a second allocation/copy.
const surfCmdPrefixBytes = 256

// outDataBytesMax bounds a single compressed rectangle's output buffer;
// a Job whose estimate exceeds it is rejected rather than silently
// truncated.
const outDataBytesMax = 16 * 1024 * 1024

// NewJPEG builds the per-dirty-rectangle JPEG strategy. quality is the
// client-advertised JPEG quality (0-100) baked in at construction since
// the client never renegotiates it mid-session.
func NewJPEG(c JPEGCompressor, quality int) encoder.StrategyFunc {
	return func(pub encoder.Publisher, job encoder.Job) error {
		if job.IsGFX() || job.Capture == nil {
			return fmt.Errorf("strategy: jpeg received non-capture job")
		}

		payload := job.Capture
		rects := payload.CRects
		published := false

		for i, r := range rects {
			if r.W < 1 || r.H < 1 {
				logging.Warn("strategy: jpeg skipping empty rect %+v", r)
				continue
			}

			outBytes := int(r.W+4) * int(r.H) * 4
			if outBytes < 8192 {
				outBytes = 8192
			}
			if outBytes > outDataBytesMax {
				return safetyAck(pub, published, fmt.Errorf("strategy: jpeg rect %dx%d exceeds output budget", r.W, r.H))
			}

			buf := make([]byte, outBytes+surfCmdPrefixBytes+2)
			// Two header bytes reserved for the transport between the
			// prefix and the compressed payload.
			buf[surfCmdPrefixBytes] = 0
			buf[surfCmdPrefixBytes+1] = 0

			n, err := c.CompressRect(payload.Data, payload.Width, payload.Height, payload.Width*4,
				int(r.X), int(r.Y), int(r.W), int(r.H), quality,
				buf[surfCmdPrefixBytes+2:])
			if err != nil {
				return safetyAck(pub, published, fmt.Errorf("strategy: jpeg compress: %w", err))
			}

			pub.Publish(encoder.Result{
				CompPadData: buf,
				PadBytes:    surfCmdPrefixBytes,
				CompBytes:   n + 2,
				X:           int(r.X),
				Y:           int(r.Y),
				CX:          int(r.W),
				CY:          int(r.H),
				Last:        i == len(rects)-1,
			})
			published = true
		}

		if !published {
			// Every rect was empty or skipped: still ack the frame so the
			// caller's outstanding-frame counter stays decrementable.
			pub.Publish(encoder.Result{Last: true})
		}
		return nil
	}
}

// safetyAck emits the CompBytes=0, Last=true acknowledgement Result a
// failed job still owes the caller (§6.E/§9) when nothing has been
// published for it yet, then returns err unchanged for the caller to log.
func safetyAck(pub encoder.Publisher, alreadyPublished bool, err error) error {
	if !alreadyPublished {
		pub.Publish(encoder.Result{Last: true})
	}
	return err
}
