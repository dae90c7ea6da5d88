package strategy

import "github.com/rcarmo/go-rdp/internal/encoder"

// RemoteFX quantization tables, two 5-byte sets of 10 nibble values per
// connection quality tier, each set ordered LL3 LH3 HL3 HH3 LH2, HL2 HH2
// LH1 HL1 HH1.
// Two tables (Y, then shared Cb/Cr) are packed back to back, matching
// MS-RDPRFX's per-quant-index layout.
//
// https://learn.microsoft.com/en-us/openspecs/windows_protocols/ms-rdprfx/3e9c8af4-7539-4c9d-95de-14b1558b902c

// QuantStd is used over LAN and autodetected connections.
var QuantStd = []byte{
	0x66, 0x66, 0x77, 0x87, 0x98,
	0x76, 0x77, 0x88, 0x98, 0x99,
}

// QuantLQ is used over broadband-high and WAN connections.
var QuantLQ = []byte{
	0x66, 0x66, 0x77, 0x87, 0x98,
	0xAA, 0xAA, 0xAA, 0xAA, 0xAA, // TODO: tentative value
}

// QuantULQ is used over modem, broadband-low and satellite connections.
var QuantULQ = []byte{
	0x66, 0x66, 0x77, 0x87, 0x98,
	0xBB, 0xBB, 0xBB, 0xBB, 0xBB, // TODO: tentative value
}

// numQuantTables is the quant-table count every RemoteFX Pro GFX session
// uses: one for Y, one shared between Cb and Cr.
const numQuantTables = 2

// quantIdxY, quantIdxCb and quantIdxCr index into the two-table quant
// array every tile is tagged with.
const (
	quantIdxY  = 0
	quantIdxCb = 1
	quantIdxCr = 1
)

// QuantForConnection picks the quantization table set for a connection
// tier the way codec-session construction does. Exported so the wiring
// layer that builds both the legacy RFX strategy and the GFX RFX-Pro
// interpreter (internal/encoder/gfx) can derive the same table from one
// place.
func QuantForConnection(ct encoder.ConnectionType) []byte {
	switch ct {
	case encoder.ConnectionModem, encoder.ConnectionBroadbandLow, encoder.ConnectionSatellite:
		return QuantULQ
	case encoder.ConnectionBroadbandHigh, encoder.ConnectionWAN:
		return QuantLQ
	default: // LAN, Autodetect
		return QuantStd
	}
}
