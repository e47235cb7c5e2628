package natsutil

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func startTestNATS(t *testing.T) *nats.Conn {
	t.Helper()
	srv, err := natsserver.NewServer(&natsserver.Options{Port: -1})
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	if !srv.ReadyForConnections(3 * time.Second) {
		t.Fatal("nats not ready")
	}
	nc, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		nc.Close()
		srv.Shutdown()
	})
	return nc
}

type matchMsg struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type matchReply struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	nc := startTestNATS(t)

	ch := make(chan matchMsg, 1)
	sub, err := Subscribe(nc, "test.match", func(_ context.Context, m matchMsg) {
		ch <- m
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	want := matchMsg{ID: "req-1", Description: "vw golf gti"}
	if err := Publish(context.Background(), nc, "test.match", want); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestSubscribeDropsMalformed(t *testing.T) {
	nc := startTestNATS(t)

	ch := make(chan matchMsg, 1)
	sub, err := Subscribe(nc, "test.malformed", func(_ context.Context, m matchMsg) {
		ch <- m
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	if err := nc.Publish("test.malformed", []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-ch:
		t.Fatalf("handler invoked for malformed message: %+v", m)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRequestReply(t *testing.T) {
	nc := startTestNATS(t)

	sub, err := SubscribeReply(nc, "test.reply", func(_ context.Context, req matchMsg) matchReply {
		return matchReply{ID: req.ID, Score: 5}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	resp, err := Request[matchMsg, matchReply](context.Background(), nc, "test.reply",
		matchMsg{ID: "req-2", Description: "toyota camry"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ID != "req-2" || resp.Score != 5 {
		t.Fatalf("resp = %+v", resp)
	}
}
