package ehttpd

// Method is one of the six request methods this engine recognises (§1 scope:
// full RFC 7230 method conformance is out of scope).
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodOptions Method = "OPTIONS"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
)

// Status is a handler's return code (§6 handler contract).
type Status int

const (
	// StatusDone means the handler produced its entire response; framing
	// is closed and, on a chunked connection, the connection is reset
	// for reuse.
	StatusDone Status = iota
	// StatusMore means the handler will be resumed on the next transport
	// "sent" event; whatever it has written so far is flushed now.
	StatusMore
	// StatusNotFound means this handler declines the request; the route
	// resolver should advance to the next table entry. Valid only before
	// any output has been sent.
	StatusNotFound
	// StatusAuthenticated is a synonym the resolver treats identically to
	// StatusNotFound before output (distinguished only for handler/log
	// readability — e.g. an auth-gating handler that falls through).
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "DONE"
	case StatusMore:
		return "MORE"
	case StatusNotFound:
		return "NOTFOUND"
	case StatusAuthenticated:
		return "AUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// TransferMode is the handler-facing transfer-mode selector (§6).
type TransferMode int

const (
	// TransferClose clears CHUNKED and NO_CONNECTION_STR: the engine
	// writes "Connection: close" and closes after the response.
	TransferClose TransferMode = iota
	// TransferChunked sets CHUNKED and clears NO_CONNECTION_STR: the
	// engine frames the body in HTTP/1.1 chunks and keeps the connection
	// open for reuse afterward.
	TransferChunked
	// TransferNone clears CHUNKED and sets NO_CONNECTION_STR, suppressing
	// the Connection header entirely (e.g. for a WebSocket upgrade that
	// takes over raw framing itself).
	TransferNone
)

// Handler is a callable selected from the route table. It consumes request
// state off conn and produces a response, potentially across multiple
// resume cycles (see Status). A handler is invoked once with conn.Gone()
// true at connection teardown, purely for cleanup, and must return
// StatusDone from that call.
type Handler func(conn *Conn) Status

// RecvHandler is an optional low-level hook a handler installs to receive
// raw body bytes itself instead of going through the bounded post buffer
// (e.g. a WebSocket frame reader). Installing one disables the transport's
// inactivity timer for the connection (§5).
type RecvHandler func(conn *Conn, data []byte)
