package handler

import (
	"errors"
	"io"
	"testing"
	"time"

	ws "github.com/quizdesk/quizdesk-backend/internal/websocket"
)

// scriptedConn replays a fixed sequence of client messages and then fails
// reads with err.
type scriptedConn struct {
	payloads []ws.RequestPayload
	err      error
	writes   []interface{}
}

func (c *scriptedConn) ReadJSON(v interface{}) error {
	if len(c.payloads) == 0 {
		if c.err != nil {
			return c.err
		}
		return io.EOF
	}
	*(v.(*ws.RequestPayload)) = c.payloads[0]
	c.payloads = c.payloads[1:]
	return nil
}

func (c *scriptedConn) WriteJSON(v interface{}) error {
	c.writes = append(c.writes, v)
	return nil
}

func (c *scriptedConn) SetReadDeadline(time.Time) error  { return nil }
func (c *scriptedConn) SetWriteDeadline(time.Time) error { return nil }

func TestReadPumpForwardsMessagesThenError(t *testing.T) {
	conn := &scriptedConn{
		payloads: []ws.RequestPayload{{Action: ws.ActionPing}},
		err:      io.EOF,
	}
	msgs := make(chan ws.RequestPayload)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go readPump(conn, msgs, readErr, done)

	select {
	case msg := <-msgs:
		if msg.Action != ws.ActionPing {
			t.Fatalf("expected ping, got %q", msg.Action)
		}
	case <-time.After(time.Second):
		t.Fatal("no message forwarded")
	}

	select {
	case err := <-readErr:
		if !errors.Is(err, io.EOF) {
			t.Fatalf("expected io.EOF, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("read error not forwarded")
	}
}

func TestReadPumpExitsWhenStreamLoopGone(t *testing.T) {
	conn := &scriptedConn{
		payloads: []ws.RequestPayload{{Action: ws.ActionPing}},
	}
	msgs := make(chan ws.RequestPayload) // never drained
	readErr := make(chan error, 1)
	done := make(chan struct{})

	stopped := make(chan struct{})
	go func() {
		readPump(conn, msgs, readErr, done)
		close(stopped)
	}()

	// The loop is gone before anyone receives the pending message; the pump
	// must not stay parked on its send.
	close(done)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("read pump leaked after the stream loop exited")
	}
}
