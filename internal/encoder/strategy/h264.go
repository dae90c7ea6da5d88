package strategy

import "github.com/rcarmo/go-rdp/internal/encoder"

// NewH264Legacy builds the legacy (non-GFX) surface H.264 strategy.
// The underlying capture-to-H264 path was never finished upstream either
// (process_enc_h264 was a stub that logged and returned success without
// encoding anything); rather than silently drop frames, every Job here
// fails with ErrNotImplemented so a caller notices instead of driving a
// session that never paints.
func NewH264Legacy() encoder.StrategyFunc {
	return func(pub encoder.Publisher, job encoder.Job) error {
		return ErrNotImplemented
	}
}
