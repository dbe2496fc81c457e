package sse

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookconnect/bookconnect-server/internal/browse"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(cancel)
	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e, ok := <-c.EventChan:
		require.True(t, ok, "client channel closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_RoutesBySession(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Connect("ses-a")
	require.NoError(t, err)
	b, err := m.Connect("ses-b")
	require.NoError(t, err)

	m.Emit(NewListClearEvent("ses-a"))
	m.Emit(NewShowMoreEnabledEvent("ses-b", true))

	assert.Equal(t, EventListClear, receive(t, a).Type)
	got := receive(t, b)
	assert.Equal(t, EventShowMoreEnabled, got.Type)
	assert.Equal(t, ShowMoreEnabledEventData{Enabled: true}, got.Data)

	assert.Empty(t, a.EventChan)
}

func TestManager_EventsWithoutSessionReachEveryone(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Connect("ses-a")
	require.NoError(t, err)
	b, err := m.Connect("ses-b")
	require.NoError(t, err)

	m.Emit(NewHeartbeatEvent())

	assert.Equal(t, EventHeartbeat, receive(t, a).Type)
	assert.Equal(t, EventHeartbeat, receive(t, b).Type)
}

func TestManager_PreservesOrderWithinSession(t *testing.T) {
	m := newTestManager(t)
	c, err := m.Connect("ses-a")
	require.NoError(t, err)

	p := NewPresenter(m, "ses-a")
	p.ClearList()
	p.RenderBatch([]browse.Preview{{ID: "b-1"}})
	p.SetShowMoreLabel(0)
	p.SetShowMoreEnabled(false)

	want := []EventType{EventListClear, EventListBatch, EventShowMoreLabel, EventShowMoreEnabled}
	for _, typ := range want {
		assert.Equal(t, typ, receive(t, c).Type)
	}
}

func TestManager_CloseSession(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Connect("ses-a")
	require.NoError(t, err)
	other, err := m.Connect("ses-b")
	require.NoError(t, err)

	m.CloseSession("ses-a")

	assert.Equal(t, EventSessionExpired, receive(t, a).Type)
	_, ok := <-a.EventChan
	assert.False(t, ok)
	<-a.Done

	assert.Equal(t, 1, m.ClientCount())
	assert.Equal(t, 0, m.SessionClientCount("ses-a"))
	assert.Equal(t, 1, m.SessionClientCount(other.SessionID))

	// A later disconnect from the stream handler is harmless.
	m.Disconnect(a.ID)
}

func TestManager_Disconnect(t *testing.T) {
	m := newTestManager(t)
	c, err := m.Connect("ses-a")
	require.NoError(t, err)

	m.Disconnect(c.ID)
	m.Disconnect(c.ID)

	assert.Equal(t, 0, m.ClientCount())
	_, ok := <-c.EventChan
	assert.False(t, ok)
}

func TestManager_ShutdownDrainsAndDropsLateEvents(t *testing.T) {
	m := NewManager(slog.New(slog.DiscardHandler))
	c, err := m.Connect("ses-a")
	require.NoError(t, err)

	m.Emit(NewListClearEvent("ses-a"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))
	require.NoError(t, m.Shutdown(ctx))

	m.Emit(NewListClearEvent("ses-a"))

	e, ok := <-c.EventChan
	require.True(t, ok)
	assert.Equal(t, EventListClear, e.Type)
	_, ok = <-c.EventChan
	assert.False(t, ok)
	assert.Equal(t, 0, m.ClientCount())
}
