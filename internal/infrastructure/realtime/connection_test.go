package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// dialConn opens a websocket against a throwaway server that discards inbound
// frames, so the write loop has a live peer.
func dialConn(t *testing.T, userID int64) *Connection {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	return NewConnection(userID, ws)
}

func TestSendAfterCloseReturnsError(t *testing.T) {
	c := dialConn(t, 1)
	c.Start()

	require.NoError(t, c.Send([]byte("hello")))

	c.Close(websocket.CloseNormalClosure, "bye")
	require.Error(t, c.Send([]byte("late")))

	// closing again is a no-op
	c.Close(websocket.CloseNormalClosure, "bye")
}

func TestConcurrentSendAndClose(t *testing.T) {
	c := dialConn(t, 1)
	c.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = c.Send([]byte("payload"))
			}
		}()
	}
	c.Close(websocket.CloseGoingAway, "shutting down")
	wg.Wait()
}
