package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func TestNewMessageType(t *testing.T) {
	msg := NewMessage("activity", "completed", 7, nil)
	if msg.Type != "activity_completed" {
		t.Errorf("type = %q, want activity_completed", msg.Type)
	}
	if msg.ID != 7 {
		t.Errorf("id = %d, want 7", msg.ID)
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	h := testHub()
	c := &Client{hub: h, outbound: make(chan []byte, 1)}

	h.Register(c)
	if h.ClientCount() != 1 {
		t.Fatalf("clients = %d, want 1", h.ClientCount())
	}

	h.Unregister(c)
	if h.ClientCount() != 0 {
		t.Fatalf("clients = %d, want 0", h.ClientCount())
	}

	// Double unregister must not close the channel twice.
	h.Unregister(c)
}

func TestHubBroadcast(t *testing.T) {
	h := testHub()
	c := &Client{hub: h, outbound: make(chan []byte, 1)}
	h.Register(c)

	h.Broadcast(NewMessage("meal", "cooked", 3, nil))

	select {
	case data := <-c.outbound:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Type != "meal_cooked" || msg.ID != 3 {
			t.Errorf("msg = %+v", msg)
		}
	default:
		t.Fatal("no message delivered")
	}
}

func TestHubBroadcastDropsWhenBufferFull(t *testing.T) {
	h := testHub()
	c := &Client{hub: h, outbound: make(chan []byte)} // unbuffered, nobody reading
	h.Register(c)

	// Must not block.
	h.Broadcast(NewMessage("activity", "created", 1, nil))
}
