package encoder

// ResultFlags mirror the GFX/frame-id presence bits on a Result.
type ResultFlags uint32

const (
	// ResultGFX marks a Result produced by the GFX command interpreter.
	ResultGFX ResultFlags = 1 << iota
	// ResultHasFrameID marks a Result that carries a meaningful FrameID
	// (set only by the GFX EndFrame handler).
	ResultHasFrameID
)

// Has reports whether all bits in mask are set.
func (f ResultFlags) Has(mask ResultFlags) bool {
	return f&mask == mask
}

// Result is one unit of encoded output for a Job. A single Job may
// produce several Results (RemoteFX fragmentation, GFX command fan-out);
// exactly one of them carries Last=true.
type Result struct {
	// CompPadData is the padded compressed buffer: PadBytes reserved for
	// the transport to prepend headers in-place, followed by CompBytes
	// of meaningful payload.
	CompPadData []byte
	PadBytes    int
	CompBytes   int

	X, Y, CX, CY int

	FrameID    uint32
	GotFrameID bool

	// Last is true for exactly one Result per Job: the final one
	// enqueued for it.
	Last bool
	// Continuation is true for every non-first Result of the same Job.
	Continuation bool

	Flags ResultFlags
}

// Payload returns the meaningful (unpadded) portion of CompPadData.
func (r Result) Payload() []byte {
	if r.PadBytes+r.CompBytes > len(r.CompPadData) {
		return nil
	}
	return r.CompPadData[r.PadBytes : r.PadBytes+r.CompBytes]
}
