package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmitterDeliversToSubscriber(t *testing.T) {
	e := NewEmitter()
	ch, cancel := e.Subscribe()
	defer cancel()

	e.Send(Notification{Title: "Asset deleted", Message: "gone", Icon: "trash"})

	select {
	case n := <-ch:
		assert.Equal(t, "Asset deleted", n.Title)
		assert.Equal(t, "trash", n.Icon)
	case <-time.After(time.Second):
		t.Fatal("notification never arrived")
	}
}

func TestEmitterSendWithoutSubscribers(t *testing.T) {
	e := NewEmitter()
	assert.NotPanics(t, func() {
		e.Send(Notification{Title: "nobody listening"})
	})
}

func TestEmitterNeverBlocksSender(t *testing.T) {
	e := NewEmitter()
	// Subscriber that never reads: fill its buffer well past capacity.
	_, cancel := e.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			e.Send(Notification{Title: "flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a slow subscriber")
	}
}

func TestEmitterCancelRemovesSubscriber(t *testing.T) {
	e := NewEmitter()
	ch, cancel := e.Subscribe()
	cancel()

	e.Send(Notification{Title: "after cancel"})

	select {
	case n := <-ch:
		t.Fatalf("received %q after cancel", n.Title)
	default:
	}
}
