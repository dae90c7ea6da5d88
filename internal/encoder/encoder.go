package encoder

import (
	"sync"
	"time"

	"github.com/rcarmo/go-rdp/internal/logging"
)

// closeTimeout bounds how long Close waits for the worker goroutine to
// observe term-request and publish term-done before giving up.
const closeTimeout = 5000 * time.Millisecond

// maxMonitors is the number of monitor indices a GFX WIRE_TO_SURFACE
// command can name: the index is packed into the top nibble of its flags
// field, giving 16 possible values. The per-monitor codec context tables
// themselves live in gfx.Interpreter, which declares its own copy.
const maxMonitors = 16

// Factories builds the StrategyFunc for each codec the caller has wired
// up. New tries them in priority order and uses the first non-nil
// factory whose codec the client actually advertised (a codec ID for the
// legacy factories, a GFX capability flag for the GFX ones). Keeping
// construction behind factories (rather than handing New pre-built
// strategy.* values) lets New defer building stateful codec contexts
// until a codec is actually selected for this session.
type Factories struct {
	// NewGFXH264 and NewGFXRFX build the GFX command interpreter
	// configured for an H264 or RemoteFX Progressive per-surface codec
	// respectively. Both dispatch on the EGFX command stream, not on a
	// single capture format.
	NewGFXH264 func() StrategyFunc
	NewGFXRFX  func() StrategyFunc

	NewH264 func() StrategyFunc
	NewRFX  func() StrategyFunc
	// NewJPEG is handed the quality value parsed from the client's
	// advertised JPEG codec properties.
	NewJPEG func(quality int) StrategyFunc
}

// Encoder is the asynchronous screen-encoding worker for one RDP session.
// Exactly one goroutine (started by New) owns codec state; all other
// access goes through Enqueue/Dequeue/Close.
type Encoder struct {
	mu sync.Mutex

	run     StrategyFunc
	gfxMode bool
	codecID uint8
	quality int
	config  Config

	jobsIn     *fifo[Job]
	resultsOut *fifo[Result]

	jobAvailable    *event
	resultAvailable *event
	termRequest     *termSignal
	termDone        *termSignal
}

// New selects a codec strategy for caps and starts the encoder's worker
// goroutine. A session is rejected outright (ErrNoEncoder) before any
// codec is considered when the client's color depth is below 24bpp, or
// when its MCS connection class isn't LAN and it advertised neither GFX
// capability: RemoteFX Progressive needs 7.1 framing LAN implies, and
// GFX-H264 is the only other codec worth the EGFX channel's overhead on
// a constrained link. Past that gate, selection follows a fixed
// first-match-wins order: legacy JPEG, GFX+H264, legacy H264,
// GFX+RemoteFX Progressive, legacy RemoteFX, then ErrNoEncoder if
// nothing applies. A step is skipped when the caller left the
// corresponding factory nil.
func New(caps ClientCapabilities, capture CaptureConfigSetter, f Factories) (*Encoder, error) {
	if caps.ConnectionType != ConnectionLAN && !caps.GFX.H264 && !caps.GFX.RFXPro {
		return nil, ErrNoEncoder
	}
	if caps.BPP < 24 {
		return nil, ErrNoEncoder
	}

	e := &Encoder{
		jobsIn:          newFifo[Job](nil),
		resultsOut:      newFifo[Result](nil),
		jobAvailable:    newEvent(),
		resultAvailable: newEvent(),
		termRequest:     newTermSignal(),
		termDone:        newTermSignal(),
	}

	switch {
	case caps.JPEGCodecID != 0 && f.NewJPEG != nil:
		e.codecID = caps.JPEGCodecID
		e.quality = jpegQualityFromProperties(caps.JPEGProperties)
		e.run = f.NewJPEG(e.quality)
		capture.SetCaptureCode(CaptureSimple)
		capture.SetCaptureFormat(FormatBGRA)

	case caps.GFX.H264 && f.NewGFXH264 != nil:
		e.gfxMode = true
		e.codecID = caps.H264CodecID
		e.run = f.NewGFXH264()
		capture.SetCaptureCode(CaptureGFXH264)
		capture.SetCaptureFormat(FormatNV12_709FR)

	case caps.H264CodecID != 0 && f.NewH264 != nil:
		e.codecID = caps.H264CodecID
		e.run = f.NewH264()
		capture.SetCaptureCode(CaptureSurfaceH264)
		capture.SetCaptureFormat(FormatNV12)

	case caps.GFX.RFXPro && f.NewGFXRFX != nil:
		e.gfxMode = true
		e.codecID = caps.RFXCodecID
		e.run = f.NewGFXRFX()
		capture.SetCaptureCode(CaptureGFXRFXPro)
		capture.SetCaptureFormat(FormatBGRA)

	case caps.RFXCodecID != 0 && f.NewRFX != nil:
		e.codecID = caps.RFXCodecID
		e.run = f.NewRFX()
		capture.SetCaptureCode(CaptureSurfaceRFX)
		capture.SetCaptureFormat(FormatBGRA)

	default:
		return nil, ErrNoEncoder
	}

	e.config = loadTunables(e.gfxMode, caps)

	go e.workerLoop()

	return e, nil
}

// jpegQualityFromProperties extracts the JPEG quality byte the client
// advertised in its codec capability properties, defaulting to a
// mid-range value when absent.
func jpegQualityFromProperties(props []byte) int {
	const defaultQuality = 75
	if len(props) == 0 {
		return defaultQuality
	}
	return int(props[0])
}

// Config returns the tunables this encoder derived at construction.
func (e *Encoder) Config() Config {
	return e.config
}

// CodecID returns the negotiated codec ID this encoder tags Results with.
func (e *Encoder) CodecID() uint8 {
	return e.codecID
}

// Enqueue hands a Job to the worker goroutine. It returns ErrClosed once
// Close has been called.
func (e *Encoder) Enqueue(job Job) error {
	e.mu.Lock()
	if e.termRequest.IsSet() {
		e.mu.Unlock()
		return ErrClosed
	}
	e.jobsIn.push(job)
	e.mu.Unlock()

	e.jobAvailable.Set()
	return nil
}

// Dequeue removes and returns the oldest pending Result, if any.
func (e *Encoder) Dequeue() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resultsOut.pop()
}

// ResultAvailable returns the channel the session goroutine should select
// on to learn that one or more Results are ready to Dequeue.
func (e *Encoder) ResultAvailable() <-chan struct{} {
	return e.resultAvailable.C()
}

// Close requests worker shutdown and blocks until the worker acknowledges
// or closeTimeout elapses, whichever comes first. It is safe to call more
// than once.
func (e *Encoder) Close() {
	e.termRequest.Set()
	e.jobAvailable.Set() // wake the worker if it is blocked in select

	select {
	case <-e.termDone.C():
	case <-time.After(closeTimeout):
		logging.Warn("encoder: worker did not acknowledge shutdown within %s", closeTimeout)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobsIn.drain()
	e.resultsOut.drain()
}
