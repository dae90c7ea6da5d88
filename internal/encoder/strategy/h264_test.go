package strategy

import (
	"testing"

	"github.com/rcarmo/go-rdp/internal/encoder"
	"github.com/stretchr/testify/assert"
)

func TestNewH264Legacy_AlwaysReturnsErrNotImplemented(t *testing.T) {
	fn := NewH264Legacy()
	pub := &collectingPublisher{}

	err := fn(pub, encoder.Job{Capture: &encoder.CapturePayload{}})
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Empty(t, pub.results)
}
