package server

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/rcarmo/go-rdp/internal/encoder/strategy"
	"github.com/rcarmo/go-rdp/internal/logging"
	"github.com/rcarmo/go-rdp/internal/protocol/fastpath"
)

// captureConfig is the concrete encoder.CaptureConfigSetter a Session
// hands to encoder.New; the selected codec's capture requirements are
// stored in code/format. The placeholder capture source does not read
// them.
type captureConfig struct {
	code   encoder.CaptureCode
	format encoder.CaptureFormat
}

func (c *captureConfig) SetCaptureCode(code encoder.CaptureCode)     { c.code = code }
func (c *captureConfig) SetCaptureFormat(f encoder.CaptureFormat)    { c.format = f }

// Session owns one client connection's encoder and the goroutine that
// drains its Results onto the wire as Fast-Path surface updates.
type Session struct {
	enc     *encoder.Encoder
	proto   *fastpath.Protocol
	capture *captureConfig
	width   int
	height  int
}

// NewSession negotiates a codec for caps against conn and constructs the
// encoder that will drive it. Only JPEG is wired to a real compressor
// (StdlibJPEGCompressor); RemoteFX/H.264/GFX factories are left nil, so
// a client that only advertises those is rejected with ErrNoEncoder
// rather than silently given a codec this repository cannot actually
// compress (see DESIGN.md for why no forward RFX/H.264 encoder exists
// anywhere in the retrieved corpus).
func NewSession(conn io.ReadWriter, caps encoder.ClientCapabilities) (*Session, error) {
	capture := &captureConfig{}

	enc, err := encoder.New(caps, capture, encoder.Factories{
		NewJPEG: func(quality int) encoder.StrategyFunc {
			return strategy.NewJPEG(StdlibJPEGCompressor{}, quality)
		},
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		enc:     enc,
		proto:   fastpath.New(conn),
		capture: capture,
		width:   caps.ScreenWidth,
		height:  caps.ScreenHeight,
	}, nil
}

// Close tears down the session's encoder worker.
func (s *Session) Close() {
	s.enc.Close()
}

// Enqueue hands one capture frame to the encoder worker.
func (s *Session) Enqueue(job encoder.Job) error {
	return s.enc.Enqueue(job)
}

// Run drains encoder Results as they become available and writes each
// one to the connection as a Fast-Path surface update, until ctx is
// canceled. It returns the first write error encountered, if any.
func (s *Session) Run(ctx context.Context) error {
	var frameID uint32

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.enc.ResultAvailable():
			for {
				res, ok := s.enc.Dequeue()
				if !ok {
					break
				}
				if res.CompBytes == 0 {
					continue
				}
				cmd := fastpath.MarshalSetSurfaceBits(fastpath.CmdTypeSurfaceBits, fastpath.SetSurfaceBitsCommand{
					DestLeft:   uint16(res.X),
					DestTop:    uint16(res.Y),
					DestRight:  uint16(res.X + res.CX),
					DestBottom: uint16(res.Y + res.CY),
					BPP:        32,
					CodecID:    s.enc.CodecID(),
					Width:      uint16(res.CX),
					Height:     uint16(res.CY),
					BitmapData: res.Payload(),
				})

				marker := fastpath.MarshalFrameMarker(fastpath.FrameMarkerCommand{
					FrameAction: fastpath.FrameStart,
					FrameID:     frameID,
				})

				if err := s.proto.SendSurfaceUpdate(marker, cmd); err != nil {
					return fmt.Errorf("server: send surface update: %w", err)
				}

				if res.Last {
					frameID++
				}
			}
		case <-time.After(idlePollInterval):
			// Guards against a missed Signal under heavy contention.
		}
	}
}

// idlePollInterval bounds how long Run can block between
// ResultAvailable wakeups before re-checking ctx.Done.
const idlePollInterval = 500 * time.Millisecond

// loggedEnqueue enqueues job and logs (rather than propagates) an
// ErrClosed, since the placeholder capture source in cmd/server has no
// other way to learn the session already tore down.
func (s *Session) loggedEnqueue(job encoder.Job) {
	if err := s.Enqueue(job); err != nil {
		logging.Debug("server: dropping capture frame: %v", err)
	}
}
