// Package encoder implements the asynchronous screen-encoding worker that
// sits between a display-capture pipeline and the RDP output stream. It
// accepts capture/graphics Jobs from the session goroutine, dispatches each
// to the codec strategy chosen at construction time, and publishes Results
// that the session goroutine splices into fastpath surface updates.
package encoder

// JobFlags are the recognized bits carried on every Job.
type JobFlags uint32

const (
	// FlagGFX selects the graphics-command payload variant. When unset,
	// the job carries a surface-capture payload instead.
	FlagGFX JobFlags = 1 << iota
	// FlagKeyFrameRequested asks the strategy for an intra-coded frame on
	// its next codec pass (RemoteFX only; ignored elsewhere).
	FlagKeyFrameRequested
)

// Has reports whether all bits in mask are set.
func (f JobFlags) Has(mask JobFlags) bool {
	return f&mask == mask
}

// Rect is a codec- or dirty-rectangle: 4 wire-sized coordinates.
type Rect struct {
	X, Y, W, H int16
}

// CapturePayload is the surface-capture variant of a Job: a raw pixel
// buffer plus the dirty/codec rectangles describing what changed.
type CapturePayload struct {
	// Data is the pixel buffer in the format negotiated at encoder
	// construction (e.g. BGRA or NV12). The job owns this slice; the
	// session goroutine must not retain or mutate it after Enqueue.
	Data   []byte
	Width  int
	Height int

	// DRects are meaningful screen regions (not necessarily tile
	// aligned); CRects are codec-tile-aligned rectangles to compress.
	DRects []Rect
	CRects []Rect

	Left, Top int
	FrameID   uint32
}

// GraphicsPayload is the graphics-command variant of a Job: a
// concatenation of already-framed RDPGFX command buffers.
type GraphicsPayload struct {
	Cmd []byte
}

// Job is the unit of work handed from the session goroutine to the
// worker. Exactly one of Capture/Graphics is non-nil, selected by the
// FlagGFX bit.
type Job struct {
	Flags    JobFlags
	Capture  *CapturePayload
	Graphics *GraphicsPayload
}

// IsGFX reports whether this job carries a graphics-command payload.
func (j Job) IsGFX() bool {
	return j.Flags.Has(FlagGFX)
}
