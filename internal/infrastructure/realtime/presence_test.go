package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresenceOnlineTransitions(t *testing.T) {
	p := NewPresence()

	require.False(t, p.IsOnline(1))
	require.Empty(t, p.Connections(1))

	p.AddConnection(1, "conn-a")
	require.True(t, p.IsOnline(1))
	require.Equal(t, []string{"conn-a"}, p.Connections(1))

	// second device keeps the user online after the first disconnects
	p.AddConnection(1, "conn-b")
	userID, offline, ok := p.RemoveConnection("conn-a")
	require.True(t, ok)
	require.Equal(t, int64(1), userID)
	require.False(t, offline)
	require.True(t, p.IsOnline(1))

	// last connection going away flips the user offline
	userID, offline, ok = p.RemoveConnection("conn-b")
	require.True(t, ok)
	require.Equal(t, int64(1), userID)
	require.True(t, offline)
	require.False(t, p.IsOnline(1))
	require.Empty(t, p.Connections(1))
}

func TestPresenceIdempotentRegistration(t *testing.T) {
	p := NewPresence()

	p.AddConnection(1, "conn-a")
	p.AddConnection(1, "conn-a")
	require.Len(t, p.Connections(1), 1)
	require.Equal(t, 1, p.ConnectionCount())

	// removing twice is a no-op the second time
	_, offline, ok := p.RemoveConnection("conn-a")
	require.True(t, ok)
	require.True(t, offline)
	_, _, ok = p.RemoveConnection("conn-a")
	require.False(t, ok)
}

func TestPresenceUnknownConnection(t *testing.T) {
	p := NewPresence()

	_, _, ok := p.RemoveConnection("ghost")
	require.False(t, ok)

	_, ok = p.UserOf("ghost")
	require.False(t, ok)
}

func TestPresenceTracksMultipleUsers(t *testing.T) {
	p := NewPresence()

	p.AddConnection(1, "a1")
	p.AddConnection(2, "b1")
	p.AddConnection(2, "b2")

	require.Equal(t, 3, p.ConnectionCount())
	require.True(t, p.IsOnline(1))
	require.True(t, p.IsOnline(2))

	owner, ok := p.UserOf("b2")
	require.True(t, ok)
	require.Equal(t, int64(2), owner)
}
