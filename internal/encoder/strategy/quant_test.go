package strategy

import (
	"testing"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/stretchr/testify/assert"
)

func TestQuantForConnection(t *testing.T) {
	tests := []struct {
		name string
		ct   encoder.ConnectionType
		want []byte
	}{
		{"modem", encoder.ConnectionModem, QuantULQ},
		{"broadband-low", encoder.ConnectionBroadbandLow, QuantULQ},
		{"satellite", encoder.ConnectionSatellite, QuantULQ},
		{"broadband-high", encoder.ConnectionBroadbandHigh, QuantLQ},
		{"wan", encoder.ConnectionWAN, QuantLQ},
		{"lan", encoder.ConnectionLAN, QuantStd},
		{"autodetect", encoder.ConnectionAutodetect, QuantStd},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := QuantForConnection(tc.ct)
			assert.Equal(t, tc.want, got)
			assert.Len(t, got, 10)
		})
	}
}
