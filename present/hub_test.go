package present

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHubRoundTrip(t *testing.T) {
	hub := NewHub(log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	welcome := read(t, conn)
	assert.Equal(t, WelcomeAction, welcome.Type)
	assert.Equal(t, 1, hub.Clients())

	hub.Present(&Frame{Turn: 2, Cards: []Card{{Title: "Strike", Cost: 1}}})
	msg := read(t, conn)
	require.Equal(t, FrameAction, msg.Type)
	var f Frame
	require.NoError(t, json.Unmarshal(msg.Data, &f))
	assert.Equal(t, 2, f.Turn)
	assert.Equal(t, "Strike", f.Cards[0].Title)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"pointer","data":{"x":1.5,"y":-2,"phase":"down"}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"end_turn"}`)))

	select {
	case cmd := <-hub.Inbox:
		assert.Equal(t, PointerAction, cmd.Type)
		require.NotNil(t, cmd.Pointer)
		assert.Equal(t, 1.5, cmd.Pointer.X)
		assert.Equal(t, "down", cmd.Pointer.Phase)
	case <-time.After(2 * time.Second):
		t.Fatal("no pointer command")
	}
	select {
	case cmd := <-hub.Inbox:
		assert.Equal(t, EndTurnAction, cmd.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no end turn command")
	}
}

func TestLateViewerGetsLastFrame(t *testing.T) {
	hub := NewHub(log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)
	hub.Present(&Frame{Turn: 7})

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, WelcomeAction, read(t, conn).Type)
	msg := read(t, conn)
	assert.Equal(t, FrameAction, msg.Type)
	assert.Contains(t, string(msg.Data), `"turn":7`)
}
