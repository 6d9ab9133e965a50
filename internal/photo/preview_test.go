package photo

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePreview(t *testing.T) {
	p, err := decodePreview(jpegBytes(t, 12, 4, color.White), SourceStaged)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", p.Format)
	assert.Equal(t, 12, p.Width)
	assert.Equal(t, 4, p.Height)
	assert.Contains(t, p.String(), "staged photo, jpeg 12x4")

	_, err = decodePreview([]byte("nope"), SourceStaged)
	require.Error(t, err)

	shot := jpegBytes(t, 16, 16, color.Black)
	_, err = decodePreview(shot[:len(shot)/2], SourceDurable)
	require.Error(t, err, "truncated images are rejected")
}

func TestFeed_SubscribeIsPrimedWithCurrent(t *testing.T) {
	f := NewFeed()
	assert.True(t, f.Current().Empty())
	assert.Equal(t, "no photo", f.Current().String())

	f.publish(Preview{Data: []byte{1}, Source: SourceDurable})

	ch, cancel := f.Subscribe()
	defer cancel()
	assert.Equal(t, SourceDurable, (<-ch).Source)
}

func TestFeed_SlowSubscriberSeesLatest(t *testing.T) {
	f := NewFeed()
	ch, cancel := f.Subscribe()
	defer cancel()

	f.publish(Preview{Data: []byte{1}, Source: SourceDurable})
	f.publish(Preview{Data: []byte{2}, Source: SourceStaged})

	got := <-ch
	assert.Equal(t, []byte{2}, got.Data)
	assert.Equal(t, got, f.Current())
}

func TestFeed_CancelClosesAndIsIdempotent(t *testing.T) {
	f := NewFeed()
	ch, cancel := f.Subscribe()
	<-ch

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	f.publish(Preview{Data: []byte{3}})
	assert.Equal(t, []byte{3}, f.Current().Data)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "CaptureReady", StateCaptureReady.String())
	assert.Equal(t, "Unknown", State(42).String())
	assert.True(t, StateDiscarded.Terminal())
	assert.False(t, StateAwaitingCapture.Terminal())
}
