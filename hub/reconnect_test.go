package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aabdoo23/nucpa-balloons/models"
	"github.com/aabdoo23/nucpa-balloons/testutil"
)

// shortReconnectDelays zeroes the reconnect schedule so a test walks the
// whole thing in milliseconds. Restored on cleanup.
func shortReconnectDelays(t *testing.T) {
	t.Helper()
	saved := reconnectDelays
	reconnectDelays = make([]time.Duration, len(saved))
	t.Cleanup(func() { reconnectDelays = saved })
}

func TestReconnectSchedule(t *testing.T) {
	want := []time.Duration{
		0,
		2 * time.Second,
		5 * time.Second,
		10 * time.Second,
		30 * time.Second,
	}
	if len(reconnectDelays) != maxReconnectAttempts {
		t.Fatalf("schedule has %d entries, want %d", len(reconnectDelays), maxReconnectAttempts)
	}
	for i, delay := range reconnectDelays {
		if delay != want[i] {
			t.Errorf("reconnectDelays[%d] = %v, want %v", i, delay, want[i])
		}
	}
}

func TestReconnectAfterDrop(t *testing.T) {
	shortReconnectDelays(t)
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer h.Disconnect()
	waitFor(t, func() bool { return backend.HubAttachCount() == 1 }, "hub attach")

	received := make(chan models.BalloonUpdates, 1)
	h.OnBalloonUpdates(func(updates models.BalloonUpdates) {
		received <- updates
	})

	backend.CloseHubConnections()
	waitFor(t, func() bool { return backend.HubAttachCount() == 2 }, "hub reattach")

	if !h.IsConnected() {
		t.Error("IsConnected = false after reconnect")
	}

	// Handlers registered before the drop survive the reconnect.
	backend.PushBalloonUpdates([]models.BalloonTask{testutil.Balloon(models.BalloonPending, "Red")})
	select {
	case updates := <-received:
		if len(updates.Pending) != 1 {
			t.Errorf("pending = %d, want 1", len(updates.Pending))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received after reconnect")
	}
}

func TestReconnectExhaustedTearsDown(t *testing.T) {
	shortReconnectDelays(t)
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer h.Disconnect()
	waitFor(t, func() bool { return backend.HubAttachCount() == 1 }, "hub attach")

	h.OnBalloonUpdates(func(models.BalloonUpdates) {})

	backend.RejectHub(true)
	backend.CloseHubConnections()
	waitFor(t, func() bool { return !h.IsConnected() }, "teardown after exhausted schedule")

	if n := len(h.snapshotBalloonHandlers()); n != 0 {
		t.Errorf("%d handlers survived the teardown, want 0", n)
	}
	if err := h.SendAnnouncement("down"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("SendAnnouncement after teardown = %v, want ErrNotConnected", err)
	}

	// A fresh Connect brings the hub back once the backend recovers.
	backend.RejectHub(false)
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return h.IsConnected() }, "fresh connect")

	received := make(chan models.BalloonUpdates, 1)
	h.OnBalloonUpdates(func(updates models.BalloonUpdates) {
		received <- updates
	})
	backend.PushBalloonUpdates([]models.BalloonTask{testutil.Balloon(models.BalloonPending, "Red")})
	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received after recovery")
	}
}

func TestConcurrentConnect(t *testing.T) {
	backend := testutil.NewBackend(t)
	h := New(backend.URL(), discardLogger())
	defer h.Disconnect()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Connect(context.Background())
		}()
	}
	wg.Wait()

	waitFor(t, func() bool { return backend.HubAttachCount() >= 1 }, "hub attach")
	time.Sleep(100 * time.Millisecond)
	if got := backend.HubAttachCount(); got != 1 {
		t.Errorf("HubAttachCount = %d after concurrent Connect calls, want 1", got)
	}
}
