package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBarePublisher() *Encoder {
	return &Encoder{
		jobsIn:          newFifo[Job](nil),
		resultsOut:      newFifo[Result](nil),
		jobAvailable:    newEvent(),
		resultAvailable: newEvent(),
		termRequest:     newTermSignal(),
		termDone:        newTermSignal(),
	}
}

func TestPublisher_PublishSignalsAndEnqueues(t *testing.T) {
	e := newBarePublisher()

	e.Publish(Result{FrameID: 1, Last: true})

	select {
	case <-e.ResultAvailable():
	default:
		t.Fatal("Publish did not signal result-available")
	}

	r, ok := e.Dequeue()
	require.True(t, ok)
	assert.Equal(t, uint32(1), r.FrameID)
}

func TestPublisher_PublishSilentEnqueuesWithoutSignalling(t *testing.T) {
	e := newBarePublisher()

	e.PublishSilent(Result{FrameID: 2})

	select {
	case <-e.ResultAvailable():
		t.Fatal("PublishSilent must not signal result-available")
	default:
	}

	r, ok := e.Dequeue()
	require.True(t, ok)
	assert.Equal(t, uint32(2), r.FrameID)
}

func TestPublisher_SignalWithoutEnqueue(t *testing.T) {
	e := newBarePublisher()

	e.Signal()

	select {
	case <-e.ResultAvailable():
	default:
		t.Fatal("Signal did not fire result-available")
	}

	_, ok := e.Dequeue()
	assert.False(t, ok)
}
