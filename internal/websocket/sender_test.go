package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// Mirrors the stream handler's structure: one goroutine relaying raw
// payloads, another answering with typed responses, both on one connection.
// Every frame must arrive intact and valid.
func TestSenderSerializesConcurrentProducers(t *testing.T) {
	received := make(chan []byte, 256)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				close(received)
				return
			}
			received <- payload
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	sender := NewSender(conn)

	const perProducer = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perProducer; i++ {
			sender.SendRaw([]byte(`{"event":"slot_created","slot_id":"x"}`))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perProducer; i++ {
			sender.Send(PongResponse{Event: EventPong})
		}
	}()
	wg.Wait()
	sender.Close()
	conn.Close()

	count := 0
	for payload := range received {
		if !json.Valid(payload) {
			t.Fatalf("corrupt frame: %q", payload)
		}
		count++
	}
	if count != 2*perProducer {
		t.Errorf("received %d frames, want %d", count, 2*perProducer)
	}
}

func TestSenderSendRawAfterWriterExit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Kill the connection immediately; the writer must exit and
		// producers must not block forever.
		conn.Close()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()

	sender := NewSender(conn)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			sender.SendRaw([]byte(`{"event":"pong"}`))
		}
	}()
	<-done
}
