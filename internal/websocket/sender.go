package websocket

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// Sender funnels every outbound message on one connection through a single
// goroutine. The connection allows at most one concurrent writer, so relay
// goroutines and read-loop replies must never write directly.
type Sender struct {
	out  chan []byte
	done chan struct{}
}

// NewSender starts the write goroutine for conn. Call Close after all
// producers have stopped.
func NewSender(conn *websocket.Conn) *Sender {
	s := &Sender{
		out:  make(chan []byte, 16),
		done: make(chan struct{}),
	}
	go s.run(conn)
	return s
}

func (s *Sender) run(conn *websocket.Conn) {
	defer close(s.done)
	for payload := range s.out {
		if err := WriteRaw(conn, payload); err != nil {
			// The peer is gone; unblock producers and let the read loop
			// observe the closed connection.
			return
		}
	}
}

// Send marshals v and queues it for writing.
func (s *Sender) Send(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.SendRaw(payload)
}

// SendRaw queues an already-encoded payload. Blocks until the writer picks
// it up or gives up on the connection.
func (s *Sender) SendRaw(payload []byte) {
	select {
	case s.out <- payload:
	case <-s.done:
	}
}

// Close drains the queue and stops the write goroutine. No Send or SendRaw
// may run concurrently with or after Close.
func (s *Sender) Close() {
	close(s.out)
	<-s.done
}
