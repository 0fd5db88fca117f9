package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdevers/yachtroom/internal/models"
)

func TestApplyOnStoppedSessionReturns(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	snap, err := f.coordinator.CreateRoom(ctx, f.identities.add("alice"))
	require.NoError(t, err)

	s, ok := f.coordinator.store.get(snap.Room.ID)
	require.True(t, ok)
	s.stop()

	// The buffered command channel can still accept a command after stop,
	// but the loop is gone and will never reply. Every call must come back
	// with an error instead of waiting on the reply, even with a context
	// that never expires.
	for i := 0; i < 50; i++ {
		done := make(chan error, 1)
		go func() {
			_, err := s.apply(ctx, func() (*Snapshot, error) { return s.snapshot(), nil })
			done <- err
		}()
		select {
		case err := <-done:
			require.Error(t, err)
			assert.Equal(t, KindRoomNotFound, KindOf(err))
		case <-time.After(time.Second):
			t.Fatal("apply blocked on a stopped session")
		}
	}
}

func TestDisconnectAfterShutdownReturns(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	snap, err := f.coordinator.CreateRoom(ctx, f.identities.add("alice"))
	require.NoError(t, err)
	participantID := snap.Participants[0].ID

	f.coordinator.Shutdown()

	// The websocket close handler calls this with no deadline; it must not
	// hang on the stopped session.
	done := make(chan struct{})
	go func() {
		f.coordinator.HandleDisconnect(snap.Room.ID, participantID)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disconnect handling blocked on a stopped session")
	}
}

func TestStoreRejectsDuplicateCode(t *testing.T) {
	d := &deps{clock: clockwork.NewFakeClock(), turnSeconds: 60}
	st := NewStore()

	a := newRoomSession(models.Room{ID: uuid.New(), Code: "AAAAAA"}, d)
	require.True(t, st.add(a))

	b := newRoomSession(models.Room{ID: uuid.New(), Code: "AAAAAA"}, d)
	assert.False(t, st.add(b), "a second room may not claim a live code")

	got, ok := st.getByCode("AAAAAA")
	require.True(t, ok)
	assert.Equal(t, a.room.ID, got.room.ID, "the first room keeps its code")

	b.room.Code = "BBBBBB"
	require.True(t, st.add(b))
}

func TestPersistRetriesAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := &deps{clock: clock}

	attempts := make(chan struct{}, 2)
	var calls atomic.Int32
	d.persist("flaky write", func(ctx context.Context) error {
		attempts <- struct{}{}
		if calls.Add(1) == 1 {
			return errors.New("transient failure")
		}
		return nil
	})

	select {
	case <-attempts:
	case <-time.After(time.Second):
		t.Fatal("first write attempt never ran")
	}

	// The retry waits on the injected clock, not the wall clock.
	clock.BlockUntil(1)
	clock.Advance(retryDelay)

	select {
	case <-attempts:
	case <-time.After(time.Second):
		t.Fatal("retry never ran after the delay elapsed")
	}
	assert.Equal(t, int32(2), calls.Load())
}
