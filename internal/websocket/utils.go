package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// WriteRaw forwards an already-encoded JSON payload over the WebSocket.
// Events arrive from PubSub pre-marshalled; re-encoding them would be waste.
// Only the Sender's write goroutine may call this; the connection allows a
// single concurrent writer.
func WriteRaw(conn *websocket.Conn, payload []byte) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// ReadJSON reads and decodes a message into the provided structure.
// It sets a read deadline.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	return conn.ReadJSON(v)
}
