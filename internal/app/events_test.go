package app_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthmetrics/internal/app"
)

func TestBroker_FanOut(t *testing.T) {
	b := app.NewBroker(zerolog.Nop())
	a, cancelA := b.Subscribe(4)
	defer cancelA()
	c, cancelC := b.Subscribe(4)
	defer cancelC()

	require.Equal(t, 2, b.Subscribers())

	b.Publish(app.HistoryEvent{Kind: app.EventRecordCreated, RecordID: 9, At: time.Now()})

	for _, ch := range []<-chan app.HistoryEvent{a, c} {
		select {
		case evt := <-ch:
			assert.Equal(t, app.EventRecordCreated, evt.Kind)
			assert.Equal(t, int64(9), evt.RecordID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := app.NewBroker(zerolog.Nop())
	ch, cancel := b.Subscribe(1)

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers())

	// Publishing with no subscribers is a no-op.
	b.Publish(app.HistoryEvent{Kind: app.EventHistoryCleared})
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := app.NewBroker(zerolog.Nop())
	ch, cancel := b.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(app.HistoryEvent{Kind: app.EventRecordCreated, RecordID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	evt := <-ch
	assert.Equal(t, int64(0), evt.RecordID)
}
