// Package server wires internal/encoder into a real network entry
// point: it negotiates the client's advertised capabilities off the
// wire, picks a codec strategy, and drives the encoder's worker loop
// against an internal/protocol/fastpath connection.
package server

import (
	"io"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/rcarmo/go-rdp/internal/protocol/pdu"
)

// NegotiateCapabilities reads the wire shapes a client sends during the
// Basic Settings Exchange and Confirm Active phases (MS-RDPBCGR
// 2.2.1.3.2, 2.2.1.13.2) and maps them onto the subset
// encoder.ClientCapabilities needs to pick a codec. bitmapCodecs may be
// nil when the caller did not receive (or could not parse) a Bitmap
// Codecs Capability Set; legacy codec IDs are left zero in that case and
// only the GFX/EGFX path remains selectable.
func NegotiateCapabilities(core io.Reader, bitmapCodecs *pdu.BitmapCodecsCapabilitySet, screenWidth, screenHeight int) (encoder.ClientCapabilities, error) {
	coreData, err := pdu.DeserializeClientCoreData(core)
	if err != nil {
		return encoder.ClientCapabilities{}, err
	}

	caps := encoder.ClientCapabilities{
		BPP:            bppFromCoreData(coreData),
		ConnectionType: encoder.ConnectionType(coreData.ConnectionType),
		GFX: encoder.GFXFlags{
			H264: coreData.EarlyCapabilityFlags&pdu.ECFSupportDynvcGFXProtocol != 0,
		},
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,

		// xrdp's own defaults for the legacy fastpath fragmentation
		// knobs; a real deployment would instead read these from the
		// client's Multifragment Update / client info PDUs.
		MaxUnacknowledgedFrameCount: 2,
		MaxFastPathFragBytes:        16384,
	}

	applyBitmapCodecs(&caps, bitmapCodecs)

	return caps, nil
}

// bppFromCoreData derives the session color depth the way the teacher's
// own newClientCoreData encodes it in reverse: HighColorDepth carries
// the negotiated value directly except when the client asked for a
// 32-bit session, which is signaled by ECFWant32BPPSession alongside a
// HighColorDepth of 24.
func bppFromCoreData(core *pdu.ClientCoreData) int {
	if core.EarlyCapabilityFlags&pdu.ECFWant32BPPSession != 0 {
		return 32
	}
	return int(core.HighColorDepth)
}

// applyBitmapCodecs matches each advertised codec GUID against the
// well-known GUIDs this package recognizes (MS-RDPBCGR 2.2.7.2.10.1) and
// fills in the corresponding legacy codec ID. RemoteFX Progressive sets
// the RFXPro EGFX-adjacent flag too, since xrdp treats client support
// for the Progressive GUID as sufficient to offer the non-GFX
// Progressive surface-command path even without an EGFX channel.
func applyBitmapCodecs(caps *encoder.ClientCapabilities, codecs *pdu.BitmapCodecsCapabilitySet) {
	if codecs == nil {
		return
	}
	for _, c := range codecs.BitmapCodecArray {
		switch c.CodecGUID {
		case pdu.JPEGGUID:
			caps.JPEGCodecID = c.CodecID
			caps.JPEGProperties = c.CodecProperties
		case pdu.RemoteFXGUID:
			caps.RFXCodecID = c.CodecID
		case pdu.RemoteFXProgressiveGUID:
			caps.RFXCodecID = c.CodecID
			caps.GFX.RFXPro = true
		}
	}
}
