package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobFlags_Has(t *testing.T) {
	f := FlagGFX | FlagKeyFrameRequested
	assert.True(t, f.Has(FlagGFX))
	assert.True(t, f.Has(FlagKeyFrameRequested))
	assert.True(t, f.Has(FlagGFX|FlagKeyFrameRequested))

	assert.False(t, JobFlags(0).Has(FlagGFX))
}

func TestJob_IsGFX(t *testing.T) {
	assert.True(t, Job{Flags: FlagGFX, Graphics: &GraphicsPayload{}}.IsGFX())
	assert.False(t, Job{Capture: &CapturePayload{}}.IsGFX())
}
