package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func testClient() *Client {
	return &Client{send: make(chan []byte, sendBufferSize)}
}

func TestRegisterUnregister(t *testing.T) {
	hub := testHub()
	c := testClient()
	c.hub = hub

	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", hub.ClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}

	// Double unregister must not panic or double-close.
	hub.Unregister(c)
}

func TestBroadcastDeliversToAllClients(t *testing.T) {
	hub := testHub()
	a, b := testClient(), testClient()
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast(CacheUpdate("missions"))

	for name, c := range map[string]*Client{"a": a, "b": b} {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("client %s: invalid JSON: %v", name, err)
			}
			if msg.Type != "cache_update" || msg.Key != "missions" {
				t.Errorf("client %s got %+v", name, msg)
			}
		default:
			t.Errorf("client %s received nothing", name)
		}
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := testHub()
	c := &Client{send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast(CacheUpdate("user"))
	hub.Broadcast(CacheUpdate("missions")) // buffer full, must not block

	if len(c.send) != 1 {
		t.Errorf("buffered messages = %d, want 1", len(c.send))
	}
}

func TestMessageBuilders(t *testing.T) {
	if m := MutationFailed("Insufficient points"); m.Type != "mutation_failed" || m.Reason != "Insufficient points" {
		t.Errorf("MutationFailed = %+v", m)
	}
	if m := CacheUpdate("user"); m.Type != "cache_update" || m.Key != "user" {
		t.Errorf("CacheUpdate = %+v", m)
	}
}
