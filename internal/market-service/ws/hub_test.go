package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// pingPong sincroniza com o loop de leitura do hub: quando o pong chega,
// as mensagens anteriores já foram processadas
func pingPong(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))

	var pong map[string]string
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&pong))
	require.Equal(t, "pong", pong["type"])
}

func TestHubSubscribeAndBroadcast(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", EventID: "evt1"}))
	pingPong(t, conn)

	hub.Broadcast(BetUpdate{EventID: "evt1", Payload: map[string]any{"tokens": 5.0}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var upd BetUpdate
	require.NoError(t, json.Unmarshal(raw, &upd))
	assert.Equal(t, "evt1", upd.EventID)
}

func TestHubIgnoresOtherEvents(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", EventID: "evt1"}))
	pingPong(t, conn)

	// broadcast de outro mercado não chega ao cliente
	hub.Broadcast(BetUpdate{EventID: "evt2", Payload: "x"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", EventID: "evt1"}))
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "unsubscribe", EventID: "evt1"}))
	pingPong(t, conn)

	hub.Broadcast(BetUpdate{EventID: "evt1", Payload: "x"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
