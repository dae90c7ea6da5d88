package gfx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rcarmo/go-rdp/internal/encoder"
)

// monitorIndex extracts the 4-bit monitor index packed into the top
// nibble of a WIRE_TO_SURFACE flags field.
func monitorIndex(flags uint32) int {
	return int((flags >> 28) & 0xF)
}

// alignUp64 rounds v up to the next multiple of 64, the stride alignment
// both codec paths expect.
func alignUp64(v int) int {
	return (v + 63) &^ 63
}

// readRectWHArray reads count RectWH entries from r.
func readRectWHArray(r io.Reader, count int) ([]RectWH, error) {
	if count < 1 || count > maxRects {
		return nil, fmt.Errorf("gfx: rect count %d out of range", count)
	}
	rects := make([]RectWH, count)
	for i := range rects {
		if err := unpack(r, &rects[i]); err != nil {
			return nil, err
		}
	}
	return rects, nil
}

// toEncoderRects converts wire RectWH entries to encoder.Rect.
func toEncoderRects(in []RectWH) []encoder.Rect {
	out := make([]encoder.Rect, len(in))
	for i, r := range in {
		out[i] = encoder.Rect{X: r.Left, Y: r.Top, W: r.Width, H: r.Height}
	}
	return out
}

// buildAVC420Metablock produces the RFX_AVC420_METABLOCK region-rect
// array and per-region QP/quality trailer for an H.264 WIRE_TO_SURFACE_1
// command, clipped to dst.
func buildAVC420Metablock(dst destRect, dirty []RectWH) ([]byte, error) {
	var buf bytes.Buffer

	clipped := make([]destRect, 0, len(dirty))
	for _, r := range dirty {
		x1 := r.Left
		y1 := r.Top
		x2 := r.Left + r.Width
		y2 := r.Top + r.Height

		if x1 < dst.X1 {
			x1 = dst.X1
		}
		if y1 < dst.Y1 {
			y1 = dst.Y1
		}
		if x2 > dst.X2 {
			x2 = dst.X2
		}
		if y2 > dst.Y2 {
			y2 = dst.Y2
		}
		if x2 <= x1 || y2 <= y1 {
			continue
		}
		clipped = append(clipped, destRect{X1: x1, Y1: y1, X2: x2, Y2: y2})
	}

	if err := packInto(&buf, uint32(len(clipped))); err != nil {
		return nil, err
	}
	for _, r := range clipped {
		if err := packStructInto(&buf, &r); err != nil {
			return nil, err
		}
	}
	for range clipped {
		q := avc420Quant{QP: 23, Quality: 100}
		if err := packStructInto(&buf, &q); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// handleWireToSurface1 encodes an H.264 GFX surface update. The monitor
// index packed into flags selects (and, on first use, lazily creates) a
// per-monitor H.264 session.
func (ip *Interpreter) handleWireToSurface1(r io.Reader) ([]byte, error) {
	var hdr wireToSurface1Header
	if err := unpack(r, &hdr); err != nil {
		return nil, err
	}

	numDirty, err := readU16(r)
	if err != nil {
		return nil, err
	}
	dirty, err := readRectWHArray(r, int(numDirty))
	if err != nil {
		return nil, err
	}

	numCodec, err := readU16(r)
	if err != nil {
		return nil, err
	}
	codecRects, err := readRectWHArray(r, int(numCodec))
	if err != nil {
		return nil, err
	}

	var dims RectWH
	if err := unpack(r, &dims); err != nil {
		return nil, err
	}

	dst := destRect{X1: 0, Y1: 0, X2: dims.Width, Y2: dims.Height}

	metablock, err := buildAVC420Metablock(dst, dirty)
	if err != nil {
		return nil, err
	}

	monIndex := monitorIndex(hdr.Flags)
	if monIndex < 0 || monIndex >= maxMonitors {
		return nil, fmt.Errorf("gfx: monitor index %d out of range", monIndex)
	}

	// raw pixel payload trails the fixed+rect portion of the PDU; the
	// remainder of r is the NV12 frame (or already-compressed bytes when
	// bit 0 of flags is set).
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var bitmap []byte
	if hdr.Flags&1 != 0 {
		bitmap = raw
	} else {
		if ip.h264[monIndex] == nil {
			if ip.h264Factory == nil {
				return nil, fmt.Errorf("gfx: no h264 codec available for monitor %d", monIndex)
			}
			ip.h264[monIndex] = ip.h264Factory()
		}
		needed := int(dims.Width) * int(dims.Height) * 3 / 2
		if len(raw) < needed {
			return nil, fmt.Errorf("gfx: nv12 payload too small: have %d need %d", len(raw), needed)
		}
		dst := make([]byte, 1<<20)
		n, err := ip.h264[monIndex].Encode(dst, raw, int(dims.Width), int(dims.Height),
			int(dims.Width), int(dims.Height), toEncoderRects(codecRects), ip.connectionType)
		if err != nil {
			return nil, fmt.Errorf("gfx: h264 encode: %w", err)
		}
		bitmap = dst[:n]
	}

	var out bytes.Buffer
	if err := packStructInto(&out, &hdr); err != nil {
		return nil, err
	}
	if err := packStructInto(&out, &dst); err != nil {
		return nil, err
	}
	out.Write(metablock)
	out.Write(bitmap)

	return out.Bytes(), nil
}

// runWireToSurface2 performs the full multi-pass RemoteFX Progressive
// encode. Every pass but the last is delivered through emit (when
// non-nil); the final pass's bytes are returned directly so Run's
// generic dispatch path can publish it like any other command.
func (ip *Interpreter) runWireToSurface2(r io.Reader, emit func(pass []byte)) ([]byte, int, error) {
	var hdr wireToSurface2Header
	if err := unpack(r, &hdr); err != nil {
		return nil, 0, err
	}

	numDirty, err := readU16(r)
	if err != nil {
		return nil, 0, err
	}
	dirty, err := readRectWHArray(r, int(numDirty))
	if err != nil {
		return nil, 0, err
	}

	numCodec, err := readU16(r)
	if err != nil {
		return nil, 0, err
	}
	codecRects, err := readRectWHArray(r, int(numCodec))
	if err != nil {
		return nil, 0, err
	}

	var dims RectWH
	if err := unpack(r, &dims); err != nil {
		return nil, 0, err
	}

	monIndex := monitorIndex(hdr.Flags)
	if monIndex < 0 || monIndex >= maxMonitors {
		return nil, 0, fmt.Errorf("gfx: monitor index %d out of range", monIndex)
	}

	if ip.rfx[monIndex] == nil {
		if ip.rfxFactory == nil {
			return nil, 0, fmt.Errorf("gfx: no rfx codec available for monitor %d", monIndex)
		}
		ip.rfx[monIndex] = ip.rfxFactory(int(dims.Width), int(dims.Height))
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}

	tiles := make([]rfxTile, len(codecRects))
	for i, r := range codecRects {
		tiles[i] = rfxTile{Rect: encoder.Rect{X: r.Left, Y: r.Top, W: r.Width, H: r.Height}}
	}

	written := 0
	passes := 0
	var last []byte

	for written < len(tiles) {
		dst := make([]byte, 3*1024*1024)
		tilesWritten, outBytes, err := ip.rfx[monIndex].Encode(dst, raw,
			int(dims.Width), int(dims.Height), alignUp64(int(dims.Width))*4,
			toEncoderRects(dirty), tiles[written:], ip.quants, 2)
		if err != nil || tilesWritten < 1 {
			if err != nil {
				return nil, passes, fmt.Errorf("gfx: rfx encode: %w", err)
			}
			break
		}
		passes++
		written += tilesWritten

		var out bytes.Buffer
		if err := packStructInto(&out, &hdr); err != nil {
			return nil, passes, err
		}
		out.Write(dst[:outBytes])

		if written >= len(tiles) {
			last = out.Bytes()
			break
		}
		if emit != nil {
			emit(out.Bytes())
		}
	}

	return last, passes, nil
}

func handleSolidFill(r io.Reader) ([]byte, error) {
	var hdr solidFillHeader
	if err := unpack(r, &hdr); err != nil {
		return nil, err
	}
	numRects, err := readU16(r)
	if err != nil {
		return nil, err
	}
	rects, err := readRectWHArray(r, int(numRects))
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := packStructInto(&out, &hdr); err != nil {
		return nil, err
	}
	if err := packInto(&out, uint16(len(rects))); err != nil {
		return nil, err
	}
	for _, rc := range rects {
		if err := packStructInto(&out, &rc); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func handleSurfaceToSurface(r io.Reader) ([]byte, error) {
	var hdr surfaceToSurfaceHeader
	if err := unpack(r, &hdr); err != nil {
		return nil, err
	}
	var rect RectWH
	if err := unpack(r, &rect); err != nil {
		return nil, err
	}
	numPts, err := readU16(r)
	if err != nil {
		return nil, err
	}
	if numPts < 1 || numPts > maxRects {
		return nil, fmt.Errorf("gfx: point count %d out of range", numPts)
	}
	pts := make([]Point, numPts)
	for i := range pts {
		if err := unpack(r, &pts[i]); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := packStructInto(&out, &hdr); err != nil {
		return nil, err
	}
	if err := packStructInto(&out, &rect); err != nil {
		return nil, err
	}
	if err := packInto(&out, uint16(len(pts))); err != nil {
		return nil, err
	}
	for _, pt := range pts {
		if err := packStructInto(&out, &pt); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func handleCreateSurface(r io.Reader) ([]byte, error) {
	var pdu createSurfacePDU
	if err := unpack(r, &pdu); err != nil {
		return nil, err
	}
	return packStruct(&pdu)
}

func handleDeleteSurface(r io.Reader) ([]byte, error) {
	var pdu deleteSurfacePDU
	if err := unpack(r, &pdu); err != nil {
		return nil, err
	}
	return packStruct(&pdu)
}

func handleStartFrame(r io.Reader) ([]byte, error) {
	var pdu startFramePDU
	if err := unpack(r, &pdu); err != nil {
		return nil, err
	}
	return packStruct(&pdu)
}

func handleEndFrame(r io.Reader) ([]byte, uint32, error) {
	var pdu endFramePDU
	if err := unpack(r, &pdu); err != nil {
		return nil, 0, err
	}
	out, err := packStruct(&pdu)
	return out, pdu.FrameID, err
}

func handleResetGraphics(r io.Reader) ([]byte, error) {
	var hdr resetGraphicsHeader
	if err := unpack(r, &hdr); err != nil {
		return nil, err
	}
	if hdr.MonitorCount < 1 || hdr.MonitorCount > maxMonitors {
		return nil, fmt.Errorf("gfx: monitor count %d out of range", hdr.MonitorCount)
	}
	monitors := make([]monitorInfo, hdr.MonitorCount)
	for i := range monitors {
		if err := unpack(r, &monitors[i]); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := packStructInto(&out, &hdr); err != nil {
		return nil, err
	}
	for _, m := range monitors {
		if err := packStructInto(&out, &m); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func handleMapSurfaceToOutput(r io.Reader) ([]byte, error) {
	var pdu mapSurfaceToOutputPDU
	if err := unpack(r, &pdu); err != nil {
		return nil, err
	}
	return packStruct(&pdu)
}
