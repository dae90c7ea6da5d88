package server

import (
	"bytes"
	"testing"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/rcarmo/go-rdp/internal/protocol/pdu"
	"github.com/stretchr/testify/require"
)

func coreDataBytes(t *testing.T, connType uint8, earlyFlags, highColorDepth uint16) []byte {
	t.Helper()
	core := &pdu.ClientCoreData{
		HighColorDepth:       highColorDepth,
		EarlyCapabilityFlags: earlyFlags,
		ConnectionType:       connType,
	}
	return core.Serialize()
}

func TestNegotiateCapabilities_MapsConnectionTypeAndBPP(t *testing.T) {
	wire := coreDataBytes(t, 5, pdu.ECFWant32BPPSession, pdu.HighColor24BPP)

	caps, err := NegotiateCapabilities(bytes.NewReader(wire), nil, 1920, 1080)
	require.NoError(t, err)
	require.Equal(t, encoder.ConnectionLAN, caps.ConnectionType)
	require.Equal(t, 32, caps.BPP)
	require.Equal(t, 1920, caps.ScreenWidth)
	require.Equal(t, 1080, caps.ScreenHeight)
	require.False(t, caps.GFX.H264)
}

func TestNegotiateCapabilities_DetectsGFXH264Flag(t *testing.T) {
	wire := coreDataBytes(t, 5, pdu.ECFSupportDynvcGFXProtocol, pdu.HighColor24BPP)

	caps, err := NegotiateCapabilities(bytes.NewReader(wire), nil, 1024, 768)
	require.NoError(t, err)
	require.True(t, caps.GFX.H264)
}

func TestNegotiateCapabilities_WithoutBitmapCodecsLeavesLegacyIDsZero(t *testing.T) {
	wire := coreDataBytes(t, 5, 0, pdu.HighColor24BPP)

	caps, err := NegotiateCapabilities(bytes.NewReader(wire), nil, 1024, 768)
	require.NoError(t, err)
	require.Zero(t, caps.JPEGCodecID)
	require.Zero(t, caps.RFXCodecID)
}

func TestNegotiateCapabilities_MatchesKnownBitmapCodecGUIDs(t *testing.T) {
	wire := coreDataBytes(t, 5, 0, pdu.HighColor24BPP)
	codecs := &pdu.BitmapCodecsCapabilitySet{
		BitmapCodecArray: []pdu.BitmapCodec{
			{CodecGUID: pdu.JPEGGUID, CodecID: 7, CodecProperties: []byte{80}},
			{CodecGUID: pdu.RemoteFXProgressiveGUID, CodecID: 3},
			{CodecGUID: pdu.NSCodecGUID, CodecID: 1},
		},
	}

	caps, err := NegotiateCapabilities(bytes.NewReader(wire), codecs, 1024, 768)
	require.NoError(t, err)
	require.EqualValues(t, 7, caps.JPEGCodecID)
	require.Equal(t, []byte{80}, caps.JPEGProperties)
	require.EqualValues(t, 3, caps.RFXCodecID)
	require.True(t, caps.GFX.RFXPro)
}

func TestNegotiateCapabilities_TruncatedWireErrors(t *testing.T) {
	_, err := NegotiateCapabilities(bytes.NewReader(nil), nil, 1024, 768)
	require.Error(t, err)
}
