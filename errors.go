package ehttpd

import "errors"

// Sentinel errors for the §7 taxonomy. Most of these never reach a caller
// directly — the engine's public surface (the four On* entry points) has no
// error return channel to the transport by design — but they give the
// diagnostic log lines and any internal retry logic a stable identity to
// match on instead of ad hoc strings.
var (
	// ErrSlotsFull is logged when onConnect finds no free slot.
	ErrSlotsFull = errors.New("ehttpd: connection slot pool is full")
	// ErrBacklogFull is logged when a flush's backlog enqueue would
	// exceed BACKLOG_MAX and the bytes are dropped instead.
	ErrBacklogFull = errors.New("ehttpd: backlog quota exceeded, dropping flush")
	// ErrSendBufferFull names the case where the live buffer would
	// overflow SENDBUF_MAX. Conn.Send reports that case by returning
	// false; nothing in the engine returns or logs this value.
	ErrSendBufferFull = errors.New("ehttpd: send buffer full")
	// ErrHeadOverflow is logged when a request head exceeds HEAD_MAX
	// before its terminator is found; parsing continues in truncated form.
	ErrHeadOverflow = errors.New("ehttpd: request head exceeded HEAD_MAX")
	// ErrMalformedContentLength is logged when Content-Length fails to
	// parse as a non-negative decimal integer.
	ErrMalformedContentLength = errors.New("ehttpd: malformed Content-Length header")
	// ErrUnknownConnection is logged when an event arrives for an
	// (ip, port) tuple with no matching slot.
	ErrUnknownConnection = errors.New("ehttpd: event for unknown connection")
	// ErrHandlerMisuse is logged when a handler returns StatusNotFound or
	// StatusAuthenticated after already sending output.
	ErrHandlerMisuse = errors.New("ehttpd: handler returned NOTFOUND/AUTHENTICATED after sending output")
)
