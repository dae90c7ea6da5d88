package gfx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lunixbochs/struc"
)

// cmdHeaderBytes is the fixed 8-byte header preceding every RDPGFX
// command in a graphics Job's command buffer: cmdId (u16), flags (u16,
// unused here), cmdBytes (u32) covering the header itself.
const cmdHeaderBytes = 8

// Command IDs this interpreter recognizes (MS-RDPEGFX 2.2.2).
const (
	cmdIDWireToSurface1    uint16 = 0x0001
	cmdIDWireToSurface2    uint16 = 0x0002
	cmdIDSolidFill         uint16 = 0x0004
	cmdIDSurfaceToSurface  uint16 = 0x0005
	cmdIDCreateSurface     uint16 = 0x0009
	cmdIDDeleteSurface     uint16 = 0x000A
	cmdIDStartFrame        uint16 = 0x000B
	cmdIDEndFrame          uint16 = 0x000C
	cmdIDResetGraphics     uint16 = 0x000E
	cmdIDMapSurfaceToOutput uint16 = 0x000F
)

// RectWH is a GFX wire rectangle: top-left origin plus width/height, the
// shape used by WIRE_TO_SURFACE_1/2's destRect and codec rect arrays.
type RectWH struct {
	Left   int16 `struc:"int16,little"`
	Top    int16 `struc:"int16,little"`
	Width  int16 `struc:"int16,little"`
	Height int16 `struc:"int16,little"`
}

// Point is a GFX wire point (SURFACE_TO_SURFACE destination points).
type Point struct {
	X int16 `struc:"int16,little"`
	Y int16 `struc:"int16,little"`
}

// destRect is an absolute x1,y1,x2,y2 rectangle: the shape
// WIRE_TO_SURFACE_1's destRect and the AVC420 metablock's region
// rectangles use on the wire.
type destRect struct {
	X1 int16 `struc:"int16,little"`
	Y1 int16 `struc:"int16,little"`
	X2 int16 `struc:"int16,little"`
	Y2 int16 `struc:"int16,little"`
}

// avc420Quant is the per-region QP/quality-level pair trailing an AVC420
// metablock's region rect array.
type avc420Quant struct {
	QP      uint8 `struc:"uint8"`
	Quality uint8 `struc:"uint8"`
}

// wireToSurface1Header is the fixed prefix of RDPGFX_WIRE_TO_SURFACE_1_PDU
// preceding its variable-length dirty/codec rectangle arrays.
type wireToSurface1Header struct {
	SurfaceID   uint16 `struc:"uint16,little"`
	CodecID     uint16 `struc:"uint16,little"`
	PixelFormat uint8  `struc:"uint8"`
	Flags       uint32 `struc:"uint32,little"`
}

// wireToSurface2Header is the fixed prefix of RDPGFX_WIRE_TO_SURFACE_2_PDU.
type wireToSurface2Header struct {
	SurfaceID       uint16 `struc:"uint16,little"`
	CodecID         uint16 `struc:"uint16,little"`
	CodecContextID  uint32 `struc:"uint32,little"`
	PixelFormat     uint8  `struc:"uint8"`
	Flags           uint32 `struc:"uint32,little"`
}

// solidFillHeader is the fixed prefix of RDPGFX_SOLIDFILL_PDU.
type solidFillHeader struct {
	SurfaceID uint16 `struc:"uint16,little"`
	Pixel     uint32 `struc:"uint32,little"`
}

// surfaceToSurfaceHeader is the fixed prefix of
// RDPGFX_SURFACETOSURFACE_PDU, followed by one fixed source rect then a
// variable destPts array.
type surfaceToSurfaceHeader struct {
	SurfaceIDSrc uint16 `struc:"uint16,little"`
	SurfaceIDDst uint16 `struc:"uint16,little"`
}

// createSurfacePDU is RDPGFX_CREATESURFACE_PDU in full: it has no
// variable-length tail.
type createSurfacePDU struct {
	SurfaceID   uint16 `struc:"uint16,little"`
	Width       uint16 `struc:"uint16,little"`
	Height      uint16 `struc:"uint16,little"`
	PixelFormat uint8  `struc:"uint8"`
}

// deleteSurfacePDU is RDPGFX_DELETESURFACE_PDU in full.
type deleteSurfacePDU struct {
	SurfaceID uint16 `struc:"uint16,little"`
}

// startFramePDU is RDPGFX_STARTFRAME_PDU in full.
type startFramePDU struct {
	FrameID   uint32 `struc:"uint32,little"`
	Timestamp uint32 `struc:"uint32,little"`
}

// endFramePDU is RDPGFX_ENDFRAME_PDU in full.
type endFramePDU struct {
	FrameID uint32 `struc:"uint32,little"`
}

// resetGraphicsHeader is the fixed prefix of RDPGFX_RESETGRAPHICS_PDU.
type resetGraphicsHeader struct {
	Width        uint32 `struc:"uint32,little"`
	Height       uint32 `struc:"uint32,little"`
	MonitorCount uint32 `struc:"uint32,little"`
}

// monitorInfo is one MONITOR_DEF entry trailing RDPGFX_RESETGRAPHICS_PDU.
type monitorInfo struct {
	Left      int32 `struc:"int32,little"`
	Top       int32 `struc:"int32,little"`
	Right     int32 `struc:"int32,little"`
	Bottom    int32 `struc:"int32,little"`
	IsPrimary int32 `struc:"int32,little"`
}

// mapSurfaceToOutputPDU is RDPGFX_MAPSURFACETOOUTPUT_PDU in full.
type mapSurfaceToOutputPDU struct {
	SurfaceID uint16 `struc:"uint16,little"`
	X         uint32 `struc:"uint32,little"`
	Y         uint32 `struc:"uint32,little"`
}

// packStruct serializes one fixed-shape struct into a fresh byte slice.
func packStruct(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := packStructInto(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// packStructInto appends v's wire encoding to buf.
func packStructInto(buf *bytes.Buffer, v interface{}) error {
	if err := struc.Pack(buf, v); err != nil {
		return fmt.Errorf("gfx: pack %T: %w", v, err)
	}
	return nil
}

// packInto appends a little-endian primitive value to buf.
func packInto(buf *bytes.Buffer, v interface{}) error {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("gfx: pack %T: %w", v, err)
	}
	return nil
}

// unpack is the struc.Unpack counterpart, reading a fixed-shape struct
// from the front of r.
func unpack(r io.Reader, v interface{}) error {
	if err := struc.Unpack(r, v); err != nil {
		return fmt.Errorf("gfx: unpack %T: %w", v, err)
	}
	return nil
}

// readU16 reads a single little-endian uint16: the count prefix ahead of
// each command's variable-length rect/point arrays. struc.Unpack targets
// structs; bare scalars go through encoding/binary directly instead.
func readU16(r io.Reader) (uint16, error) {
	var v uint16
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, fmt.Errorf("gfx: read uint16: %w", err)
	}
	return v, nil
}
