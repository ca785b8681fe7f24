package ehttpd

import (
	"github.com/BastianRuppert/ehttpd/framing"
	"github.com/BastianRuppert/ehttpd/hdr"
)

// connFlags is the §3 "flag set drawn from {HTTP11, CHUNKED, SENDING_BODY,
// DISCON_AFTER_SENT, NO_CONNECTION_STR}", plus flagHeaderSent (set once
// Respond has written the preamble), kept as one bitmask field instead of
// six bools to mirror the original's single `int flags`.
type connFlags uint8

const (
	flagHTTP11 connFlags = 1 << iota
	flagChunked
	flagSendingBody
	flagDisconAfterSent
	flagNoConnectionStr
	flagHeaderSent
)

func (f connFlags) has(bit connFlags) bool { return f&bit != 0 }

// postState is the §3 "post state": declared length, rolling received
// count, and the bounded chunk buffer the body is read into. len uses the
// sentinel described in DESIGN NOTES ("State encoding on post.len"); unlike
// the original, Go lets us also carry an explicit Phase so callers don't
// have to re-derive it from the sentinel, while keeping len itself exactly
// as §3 specifies for anyone porting logic from the original.
type postState struct {
	len      int64 // -1 headers incomplete, 0 no body, >0 body expected
	received int64
	buf      []byte
	bufUsed  int
	bufCap   int

	multipartBoundary string
}

// Phase reports which of the §4.E states the post/body machinery is in.
type Phase int

const (
	PhaseReadingHeaders Phase = iota
	PhaseReadingBody
	PhaseNoBody
)

func (p postState) Phase() Phase {
	switch {
	case p.len < 0:
		return PhaseReadingHeaders
	case p.len == 0:
		return PhaseNoBody
	default:
		return PhaseReadingBody
	}
}

// Conn is one connection's full state (§3 "Connection"): owned exclusively
// by one slot in the Instance's pool, driven through the state machine in
// statemachine.go, and exposed to handlers through the accessor methods
// below.
type Conn struct {
	inst      *Instance
	slot      int
	transport Transport // nil once the transport handle has been cleared ("gone")

	remoteIP   [4]byte
	remotePort uint16

	// Request view, valid once head.Complete().
	req hdr.Request

	// Handler state.
	handler    Handler
	routeIdx   int // next index to resume route resolution from on NOTFOUND
	arg1, arg2 any
	state      any
	recv       RecvHandler
	sentAny    bool // true once any byte has been sent for this response

	head  *hdr.Ring
	out   *framing.Buffer
	flags connFlags

	post postState

	corsToken string

	// Per-response header overrides a handler sets before calling Respond;
	// empty means "omit the header", matching the original's behaviour when
	// no MIME type was resolved for a static response.
	contentType  string
	cacheControl string
}

func newConn(inst *Instance, slot int) *Conn {
	c := &Conn{
		inst: inst,
		slot: slot,
		head: hdr.NewRing(inst.budgets.MaxHeadLen),
		out:  framing.New(inst.budgets.MaxSendBuff, inst.budgets.MaxBacklog),
	}
	c.resetForNextRequest()
	return c
}

// resetForNextRequest clears everything that must not survive into the next
// request on a reused (chunked, keep-alive) connection — §3 invariant about
// head/handler state being cleared on reuse, and the DESIGN NOTES guarantee
// that head-aliased views never outlive this reset.
func (c *Conn) resetForNextRequest() {
	c.head.Reset()
	c.req = hdr.Request{}
	c.handler = nil
	c.routeIdx = 0
	c.arg1, c.arg2 = nil, nil
	c.state = nil
	c.recv = nil
	c.sentAny = false
	c.flags = 0
	c.post = postState{len: -1}
	c.corsToken = ""
	c.contentType = ""
	c.cacheControl = ""
}

// --- Handler-facing accessors (§6 handler contract) ---

// Method returns the request method.
func (c *Conn) Method() Method { return Method(c.req.Method) }

// URL returns the request URL path (without the query string).
func (c *Conn) URL() string { return c.req.URL }

// GetArgs returns the raw query-string portion of the request target.
func (c *Conn) GetArgs() string { return c.req.GetArgs }

// Host returns the Host header value, or "" if absent.
func (c *Conn) Host() string { return c.req.Host }

// Header returns the first value of an arbitrary request header, for
// handlers that need something beyond the engine's special-cased fields.
func (c *Conn) Header(name string) string { return c.req.Header(name) }

// Gone reports whether the transport handle has been cleared; a handler
// sees this exactly once, at teardown, and must return StatusDone.
func (c *Conn) Gone() bool { return c.transport == nil }

// Arg1 and Arg2 return the route table entry's two caller-defined
// arguments for the handler currently installed.
func (c *Conn) Arg1() any { return c.arg1 }
func (c *Conn) Arg2() any { return c.arg2 }

// State returns the handler-owned opaque state pointer (cgiData).
func (c *Conn) State() any { return c.state }

// SetState installs the handler-owned opaque state pointer.
func (c *Conn) SetState(v any) { c.state = v }

// SetRecvHandler installs a low-level receive callback; while one is
// installed the transport's inactivity timer is disabled for this
// connection (§5).
func (c *Conn) SetRecvHandler(h RecvHandler) {
	c.recv = h
	if h != nil && c.transport != nil {
		c.transport.DisableTimeout()
	}
}

// PostLength returns the declared Content-Length, or -1 if headers are not
// yet complete.
func (c *Conn) PostLength() int64 { return c.post.len }

// PostReceived returns how many body bytes have been delivered so far.
func (c *Conn) PostReceived() int64 { return c.post.received }

// PostChunk returns the current body chunk buffered for this handler
// invocation (valid only during a body-driven call).
func (c *Conn) PostChunk() []byte { return c.post.buf[:c.post.bufUsed] }

// MultipartBoundary returns the wire-form boundary delimiter (prefixed with
// "--") parsed from a multipart/form-data Content-Type, or "" if absent.
func (c *Conn) MultipartBoundary() string { return c.post.multipartBoundary }

// SetContentType overrides the Content-Type header Respond writes. Called
// before Respond; has no effect once the preamble has already gone out.
// Leaving it unset omits the header entirely.
func (c *Conn) SetContentType(mimeType string) { c.contentType = mimeType }

// SetCacheControl overrides the Cache-Control header Respond writes. Called
// before Respond; leaving it unset (or passing "") omits the header.
func (c *Conn) SetCacheControl(value string) { c.cacheControl = value }

// SetTransferMode applies the §6 transfer-mode selector.
func (c *Conn) SetTransferMode(mode TransferMode) {
	switch mode {
	case TransferClose:
		c.flags &^= flagChunked
		c.flags &^= flagNoConnectionStr
	case TransferChunked:
		c.flags |= flagChunked
		c.flags &^= flagNoConnectionStr
	case TransferNone:
		c.flags &^= flagChunked
		c.flags |= flagNoConnectionStr
	}
}

// Respond writes the response preamble — status line, Server header, an
// optional Content-Type/Cache-Control pair if the handler set one via
// SetContentType/SetCacheControl, the transfer-mode header implied by the
// connection's current flags, and CORS headers when the Instance has CORS
// enabled — then opens the body span. It is the handler's job to call this
// before its first Send, exactly once per cycle; calling it again once the
// preamble has already gone out is a no-op, so a handler that calls it at
// the top of every invocation (as the MORE-cycle demos do) is safe. A
// handler that never calls it at all, and instead returns NOTFOUND or
// AUTHENTICATED, leaves nothing sent and lets the resolver fall through to
// the next route (§4.E).
func (c *Conn) Respond() {
	if c.flags.has(flagHeaderSent) {
		return
	}
	version := "HTTP/1.0"
	if c.flags.has(flagHTTP11) {
		version = "HTTP/1.1"
	}
	c.Send([]byte(version + " 200 OK\r\n"))
	c.Send([]byte(serverHeader))
	if c.contentType != "" {
		c.Send([]byte("Content-Type: " + c.contentType + "\r\n"))
	}
	if c.cacheControl != "" {
		c.Send([]byte("Cache-Control: " + c.cacheControl + "\r\n"))
	}
	switch {
	case c.flags.has(flagChunked):
		c.Send([]byte("Transfer-Encoding: chunked\r\n"))
	case c.flags.has(flagNoConnectionStr):
		// Connection header suppressed entirely (e.g. protocol upgrade).
	default:
		c.Send([]byte("Connection: close\r\n"))
	}
	if c.inst.corsEnabled {
		writeCORSHeaders(c, c.corsToken)
	}
	c.Send([]byte("\r\n"))
	c.flags |= flagHeaderSent | flagSendingBody
}

// Send appends bytes to the live output buffer (component A). It fails if
// called outside a live span, if the reservation for a chunk header
// wouldn't fit, or if appending would overflow SENDBUF_MAX.
func (c *Conn) Send(data []byte) bool {
	ok := c.out.Send(data, c.wantsChunkHeader())
	if ok {
		c.sentAny = true
	}
	return ok
}

func (c *Conn) wantsChunkHeader() bool {
	return c.flags.has(flagChunked) && c.flags.has(flagSendingBody)
}
