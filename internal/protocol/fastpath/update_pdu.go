package fastpath

import (
	"encoding/binary"
	"fmt"
)

// updateCodeSurfCmds is the TS_FP_UPDATE updateCode for UPDATETYPE_SURFCMDS
// (MS-RDPBCGR 2.2.9.1.2.1): a Fast-Path server update PDU whose payload is
// one or more surface commands, the framing this package's encoder output
// rides on.
const updateCodeSurfCmds uint8 = 0x04

// encodeUpdateHeader wraps payload in one TS_FP_UPDATE structure: a header
// byte (updateCode in the low 4 bits; fragmentation and compression left
// unset, since encoder.Result payloads are already split by the caller),
// a 2-byte little-endian size, then payload itself.
func encodeUpdateHeader(updateCode uint8, payload []byte) []byte {
	buf := make([]byte, 3+len(payload))
	buf[0] = updateCode & 0x0F
	binary.LittleEndian.PutUint16(buf[1:3], uint16(len(payload)))
	copy(buf[3:], payload)
	return buf
}

// encodeOutputHeader wraps data in the outer Fast-Path server output
// header: an action byte (0x00, FASTPATH_UPDATETYPE) followed by a
// variable-length size. Sizes under 0x80 fit in one byte; larger sizes
// set the high bit of the first length byte and spill the remaining 15
// bits across both bytes.
func encodeOutputHeader(data []byte) []byte {
	n := len(data)
	if n < 0x80 {
		buf := make([]byte, 2+n)
		buf[0] = 0x00
		buf[1] = byte(n)
		copy(buf[2:], data)
		return buf
	}
	buf := make([]byte, 3+n)
	buf[0] = 0x00
	buf[1] = 0x80 | byte(n>>8)
	buf[2] = byte(n)
	copy(buf[3:], data)
	return buf
}

// SendSurfaceUpdate frames one or more already-marshaled surface command
// buffers (MarshalSetSurfaceBits/MarshalFrameMarker) as a single Fast-Path
// server update PDU and writes it to the connection Protocol was built
// with. This is the server-to-client counterpart ParseSurfaceCommands
// never needed, since this repo's teacher only ever decoded updates.
func (p *Protocol) SendSurfaceUpdate(commands ...[]byte) error {
	var payload []byte
	for _, cmd := range commands {
		payload = append(payload, cmd...)
	}
	pdu := encodeOutputHeader(encodeUpdateHeader(updateCodeSurfCmds, payload))
	if _, err := p.conn.Write(pdu); err != nil {
		return fmt.Errorf("fastpath: write surface update: %w", err)
	}
	return nil
}
