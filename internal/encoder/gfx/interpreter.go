// Package gfx implements the RDPGFX command interpreter: it walks a
// graphics Job's command buffer, dispatches each 8-byte-prefixed command
// to the matching handler, and turns the handler's output into Results
// for the encoder's result FIFO. This is the GFX counterpart of the
// legacy surface-capture strategies in the strategy package; it is kept
// in its own package because it needs per-monitor codec state the
// non-GFX strategies never do.
package gfx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/rcarmo/go-rdp/internal/logging"
)

// maxCmdBytes bounds a single command's declared length; the interpreter
// refuses to dispatch anything larger, matching the upstream bound on
// RDPGFX command framing.
const maxCmdBytes = 32 * 1024

// maxRects bounds any wire-declared rectangle/point count; a command
// claiming more is rejected rather than driving an unbounded allocation.
const maxRects = 16 * 1024

// maxMonitors bounds RESETGRAPHICS's monitor array and the per-monitor
// codec-context tables below it.
const maxMonitors = 16

// Interpreter runs the RDPGFX command stream carried by graphics Jobs,
// lazily creating per-monitor H.264 or RemoteFX Progressive codec
// contexts the first time a monitor index appears on the wire.
type Interpreter struct {
	h264Factory func() H264Session
	rfxFactory  func(width, height int) RFXSession

	h264 [maxMonitors]H264Session
	rfx  [maxMonitors]RFXSession

	connectionType encoder.ConnectionType
	quants         []byte
}

// H264Session and RFXSession are the narrow per-monitor codec handles
// the interpreter lazily creates. Concrete implementations live behind
// the strategy package's H264Encoder/RFXEncoder interfaces; the wiring
// code that builds an Interpreter's factories is what ties the two
// together, since gfx cannot import strategy (strategy already imports
// gfx's sibling encoder package, and the two subpackages never import
// each other directly).
type H264Session interface {
	Encode(dst, src []byte, width, height, twidth, theight int,
		crects []encoder.Rect, connType encoder.ConnectionType) (int, error)
}

type RFXSession interface {
	Encode(dst, src []byte, width, height, stride int,
		dirty []encoder.Rect, tiles []rfxTile, quant []byte, numQuant int) (tilesWritten, outBytes int, err error)
}

// rfxTile mirrors strategy.Tile without importing the strategy package
// (which already imports encoder and would otherwise cycle back here
// were gfx to import strategy directly for this one shape).
type rfxTile struct {
	Rect                     encoder.Rect
	QuantY, QuantCb, QuantCr uint8
}

// NewInterpreter builds an Interpreter. Either factory may be nil if the
// session never advertised that codec; a command that needs a nil
// factory's codec returns an error, which Run logs before moving on to
// the next command, rather than panicking.
func NewInterpreter(connType encoder.ConnectionType, quants []byte,
	h264Factory func() H264Session, rfxFactory func(width, height int) RFXSession) *Interpreter {
	return &Interpreter{
		connectionType: connType,
		quants:         quants,
		h264Factory:    h264Factory,
		rfxFactory:     rfxFactory,
	}
}

// Run walks job.Graphics.Cmd, dispatching each command in turn. A
// malformed header (short buffer, cmdBytes outside [8, maxCmdBytes])
// aborts the whole job with an error after publishing an empty
// acknowledging Result, matching the source's "always ack so the client
// doesn't stall, even on error" contract. Unknown command IDs are
// skipped silently; a known command whose handler returns a nil stream
// produces no Result at all (the command had no client-visible effect).
func (ip *Interpreter) Run(pub encoder.Publisher, job encoder.Job) error {
	if !job.IsGFX() || job.Graphics == nil {
		return fmt.Errorf("gfx: interpreter received non-graphics job")
	}

	buf := job.Graphics.Cmd
	pos := 0

	for pos+cmdHeaderBytes <= len(buf) {
		header := buf[pos : pos+cmdHeaderBytes]
		cmdID := binary.LittleEndian.Uint16(header[0:2])
		cmdBytes := int(binary.LittleEndian.Uint32(header[4:8]))

		if cmdBytes < cmdHeaderBytes || cmdBytes > maxCmdBytes || pos+cmdBytes > len(buf) {
			pub.Publish(encoder.Result{Last: true, Flags: encoder.ResultGFX})
			return fmt.Errorf("gfx: malformed command at offset %d: cmdBytes=%d", pos, cmdBytes)
		}

		body := buf[pos+cmdHeaderBytes : pos+cmdBytes]
		nextPos := pos + cmdBytes
		isLast := nextPos+cmdHeaderBytes > len(buf)

		out, frameID, gotFrameID, err := ip.dispatch(pub, cmdID, body)
		if err != nil {
			logging.Warn("gfx: command %#x failed: %v", cmdID, err)
		} else if out != nil {
			flags := encoder.ResultGFX
			if gotFrameID {
				flags |= encoder.ResultHasFrameID
			}
			pub.Publish(encoder.Result{
				CompPadData: out,
				CompBytes:   len(out),
				FrameID:     frameID,
				GotFrameID:  gotFrameID,
				Last:        isLast,
				Flags:       flags,
			})
		} else {
			logging.Debug("gfx: command %#x produced no output", cmdID)
		}

		pos = nextPos
	}

	return nil
}

// dispatch routes one command body to its handler. body excludes the
// 8-byte header that was already consumed by Run. pub is only used by
// WIRE_TO_SURFACE_2: a RemoteFX Progressive encode that needs more than
// one pass to emit all of a command's tiles publishes every pass but the
// last directly, since Run only forwards dispatch's single return value
// as the final Result.
func (ip *Interpreter) dispatch(pub encoder.Publisher, cmdID uint16, body []byte) (out []byte, frameID uint32, gotFrameID bool, err error) {
	r := bytes.NewReader(body)

	switch cmdID {
	case cmdIDWireToSurface1:
		out, err = ip.handleWireToSurface1(r)
	case cmdIDWireToSurface2:
		out, _, err = ip.runWireToSurface2(r, func(pass []byte) {
			pub.Publish(encoder.Result{
				CompPadData:  pass,
				CompBytes:    len(pass),
				Continuation: true,
				Flags:        encoder.ResultGFX,
			})
		})
	case cmdIDSolidFill:
		out, err = handleSolidFill(r)
	case cmdIDSurfaceToSurface:
		out, err = handleSurfaceToSurface(r)
	case cmdIDCreateSurface:
		out, err = handleCreateSurface(r)
	case cmdIDDeleteSurface:
		out, err = handleDeleteSurface(r)
	case cmdIDStartFrame:
		out, err = handleStartFrame(r)
	case cmdIDEndFrame:
		out, frameID, err = handleEndFrame(r)
		gotFrameID = err == nil
	case cmdIDResetGraphics:
		out, err = handleResetGraphics(r)
	case cmdIDMapSurfaceToOutput:
		out, err = handleMapSurfaceToOutput(r)
	default:
		// Unknown command: not an error, just nothing to forward.
	}

	return out, frameID, gotFrameID, err
}
