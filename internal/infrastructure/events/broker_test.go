package events_test

import (
	"testing"
	"time"

	"ledger-core/internal/domain/models"
	"ledger-core/internal/infrastructure/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := events.NewBroker()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	want := models.TransactionEvent{Type: "transfer.done", TransactionID: 1, State: models.StateDone}
	go b.Publish(want)

	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := events.NewBroker()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, ok := <-ch
	require.False(t, ok)
}

func TestGetBrokerReturnsSingleton(t *testing.T) {
	assert.Same(t, events.GetBroker(), events.GetBroker())
}
