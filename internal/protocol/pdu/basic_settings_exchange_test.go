package pdu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeserializeClientCoreData_RoundTripsWithSerialize(t *testing.T) {
	core := newClientCoreData(0, 1920, 1080, 32)
	core.ConnectionType = 5
	core.ClientBuild = 9600

	wire := bytes.NewReader(core.Serialize())

	got, err := DeserializeClientCoreData(wire)
	require.NoError(t, err)
	require.Equal(t, *core, *got)
}

func TestDeserializeClientCoreData_TruncatedDataStopsAtEOF(t *testing.T) {
	full := newClientCoreData(0, 1024, 768, 24).Serialize()
	// Truncate partway through the fixed fields, well before the
	// optional extended fields: a server must accept this from an
	// older client that never sends them.
	truncated := full[:40]

	got, err := DeserializeClientCoreData(bytes.NewReader(truncated))
	require.NoError(t, err)
	require.EqualValues(t, 1024, got.DesktopWidth)
	require.EqualValues(t, 768, got.DesktopHeight)
	// Fields past the truncation point stay zero.
	require.Zero(t, got.ConnectionType)
	require.Zero(t, got.DesktopPhysicalWidth)
}

func TestDeserializeClientCoreData_EmptyReaderErrors(t *testing.T) {
	_, err := DeserializeClientCoreData(bytes.NewReader(nil))
	require.Error(t, err)
}
