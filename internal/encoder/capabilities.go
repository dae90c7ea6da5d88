package encoder

// ConnectionType mirrors the MCS connection-type classes the client
// reports during capability exchange (see
// internal/protocol/pdu.ConnectionType and MS-RDPBCGR 2.2.1.3.2).
type ConnectionType uint8

const (
	ConnectionModem ConnectionType = iota
	ConnectionBroadbandLow
	ConnectionSatellite
	ConnectionBroadbandHigh
	ConnectionWAN
	ConnectionLAN
	ConnectionAutodetect
)

// GFXFlags are the EGFX capability flags relevant to codec selection.
type GFXFlags struct {
	H264   bool
	RFXPro bool
}

// ClientCapabilities is the subset of negotiated client capabilities the
// encoder's constructor needs to pick a codec strategy (MS-RDPBCGR
// capability exchange plus EGFX capability advertisement).
type ClientCapabilities struct {
	BPP            int
	ConnectionType ConnectionType

	JPEGCodecID    uint8
	JPEGProperties []byte

	H264CodecID uint8
	RFXCodecID  uint8

	GFX GFXFlags

	MaxUnacknowledgedFrameCount int
	MaxFastPathFragBytes        int

	ScreenWidth  int
	ScreenHeight int
}

// CaptureCode selects how the display-capture pipeline should produce
// pixel data for this session (mirrors xrdp's CC_* capture modes).
type CaptureCode int

const (
	CaptureSimple CaptureCode = iota
	CaptureSurfaceRFX
	CaptureSurfaceH264
	CaptureGFXH264
	CaptureGFXRFXPro
)

// CaptureFormat selects the pixel format the capture pipeline must
// produce.
type CaptureFormat int

const (
	FormatBGRA CaptureFormat = iota
	FormatNV12
	FormatNV12_709FR
)

// CaptureConfigSetter lets the encoder tell the capture pipeline which
// code path and pixel format to use, decided during codec selection.
type CaptureConfigSetter interface {
	SetCaptureCode(CaptureCode)
	SetCaptureFormat(CaptureFormat)
}
