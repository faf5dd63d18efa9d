package websocket

import (
	"time"
)

// Write and read deadlines for stream traffic. The read window is long
// because a quiet client is still legitimate between autosaves; writes
// that stall past writeWait indicate a dead peer.
const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
)

// Conn is the slice of *gorilla/websocket.Conn the stream helpers touch,
// narrowed so an in-memory fake can stand in during tests.
type Conn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// WriteTyped sends one typed payload with the write deadline applied.
func WriteTyped(conn Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends an ErrorResponse carrying errMsg.
func WriteError(conn Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next message into v with the read deadline applied.
func ReadJSON(conn Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readWait))
	return conn.ReadJSON(v)
}
