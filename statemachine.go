package ehttpd

import (
	"github.com/BastianRuppert/ehttpd/framing"
	"github.com/BastianRuppert/ehttpd/hdr"
)

// serverHeader is the fixed Server: line §6 requires on every response.
const serverHeader = "Server: ehttpd/1.0\r\n"

// OnConnect is the §4.F accept entry point: it finds the first free slot and
// installs a fresh Connection in READING_HEADERS state, or rejects if the
// pool is full.
func OnConnect(inst *Instance, t Transport, ip [4]byte, port uint16) bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	slot := inst.freeSlot()
	if slot < 0 {
		inst.logf(-1, ErrSlotsFull, "reject connect from %v:%d", ip, port)
		return false
	}
	c := newConn(inst, slot)
	c.transport = t
	c.remoteIP = ip
	c.remotePort = port
	inst.slots[slot] = c
	return true
}

// OnRecv is the §4.F receive entry point: it looks the Connection up by
// (ip, port), refreshes its transport handle, and drives §4.E's byte-level
// state machine over the delivered bytes — however they happen to be
// fragmented across calls.
func OnRecv(inst *Instance, t Transport, ip [4]byte, port uint16, data []byte) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	c := inst.findByAddr(ip, port)
	if c == nil {
		inst.logf(-1, ErrUnknownConnection, "recv for unknown %v:%d", ip, port)
		t.Disconnect()
		return
	}
	c.transport = t

	remaining := data
	for len(remaining) > 0 {
		if c.flags.has(flagDisconAfterSent) {
			return // DRAINING: no further request processing (§4.E state 4)
		}
		if c.recv != nil {
			// A low-level receive hook is installed: every remaining byte
			// goes straight to it, bypassing the bounded post buffer and
			// the phase-based routing below entirely (§6 RecvHandler). The
			// callback runs inside a live span so it can Send a reply.
			c.out.BeginLive()
			c.recv(c, remaining)
			if dropped := c.out.Flush(inst.senderFor(c), false); dropped {
				inst.logf(c.slot, ErrBacklogFull, "flush backlog dropped bytes")
			}
			c.out.EndLive()
			return
		}
		switch c.post.Phase() {
		case PhaseReadingHeaders:
			consumed, complete := c.head.Feed(remaining)
			remaining = remaining[consumed:]
			if !complete {
				if c.head.Overflowed() {
					inst.logf(c.slot, ErrHeadOverflow, "head buffer overflowed")
				}
				return
			}
			inst.onHeadComplete(c)

		case PhaseNoBody:
			// Pipelined requests are out of scope (§1 Non-goals); any bytes
			// left over after a no-body request's head are ignored.
			return

		case PhaseReadingBody:
			room := c.post.bufCap - c.post.bufUsed
			take := len(remaining)
			if take > room {
				take = room
			}
			copy(c.post.buf[c.post.bufUsed:c.post.bufUsed+take], remaining[:take])
			c.post.bufUsed += take
			c.post.received += int64(take)
			remaining = remaining[take:]
			if c.post.bufUsed == c.post.bufCap || c.post.received >= c.post.len {
				inst.invokeAndReact(c)
				c.post.bufUsed = 0
			}
		}
	}
}

// OnSent is the §4.F entry point driving the §4.E resume loop whenever the
// transport finishes accepting a previous send.
func OnSent(inst *Instance, t Transport, ip [4]byte, port uint16) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	c := inst.findByAddr(ip, port)
	if c == nil {
		inst.logf(-1, ErrUnknownConnection, "sent event for unknown %v:%d", ip, port)
		t.Disconnect()
		return
	}
	c.transport = t
	inst.resume(c)
}

// OnDisconnect is the §4.F teardown entry point: it clears the transport
// handle, gives the handler one last cleanup call with Conn.Gone() true,
// then retires the slot. Called twice for the same tuple, the second call
// is a no-op (retire idempotence, §8 property 7).
func OnDisconnect(inst *Instance, t Transport, ip [4]byte, port uint16) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	c := inst.findByAddr(ip, port)
	if c == nil {
		return
	}
	c.transport = nil
	if c.handler != nil {
		c.handler(c)
	}
	inst.slots[c.slot] = nil
}

// resume implements the §4.E resume loop entered on a "sent" event: drain
// one backlog item if present, else close if draining, else resume the
// handler if one is installed.
func (inst *Instance) resume(c *Conn) {
	if !c.out.BacklogEmpty() {
		c.out.DrainOne(inst.senderFor(c))
		return
	}
	if c.flags.has(flagDisconAfterSent) {
		if c.transport != nil {
			c.transport.Disconnect()
		}
		return
	}
	if c.handler == nil {
		return
	}
	inst.invokeAndReact(c)
}

// onHeadComplete runs once a request head's terminator has been found: it
// parses the head, sets HTTP11/CHUNKED defaults and the post-body plan
// (§4.B), and — for a request with no body — immediately dispatches to a
// handler, since nothing further triggers headers-only requests the way a
// filling post buffer triggers body ones.
func (inst *Instance) onHeadComplete(c *Conn) {
	req, ok := hdr.Parse(c.head.Bytes())
	if !ok {
		// Degrade per §7 policy (ii): no method/URL recognised, no route
		// will match, and the built-in 404 handles it.
		req = hdr.Request{Headers: hdr.Header{}}
	}
	c.req = req

	if req.HTTP11 {
		c.flags |= flagHTTP11 | flagChunked
	}
	if req.ConnectionClose {
		c.flags &^= flagChunked
	}

	c.corsToken = req.CORSRequestHdrs
	if max := inst.budgets.MaxCORSToken; max > 0 && len(c.corsToken) > max {
		c.corsToken = c.corsToken[:max]
	}

	switch {
	case req.Malformed:
		inst.logf(c.slot, ErrMalformedContentLength, "malformed Content-Length header")
		c.post.len = 0
	case !req.HasContentLength || req.ContentLength == 0:
		c.post.len = 0
	default:
		c.post.len = req.ContentLength
		capN := req.ContentLength
		if limit := int64(inst.budgets.MaxPostLen); capN > limit {
			capN = limit
		}
		c.post.bufCap = int(capN)
		c.post.buf = make([]byte, c.post.bufCap)
		c.post.multipartBoundary = req.MultipartBoundary
	}

	if c.post.Phase() != PhaseReadingBody {
		inst.invokeAndReact(c)
	}
}

// invokeAndReact resolves a route if none is installed yet, invokes the
// handler, and reacts to its return code — looping past declined routes
// (§4.E: NOTFOUND or AUTHENTICATED returned before any output advances the
// resolver). Writing the response preamble is the handler's own job (via
// Conn.Respond), precisely so a decline before any output leaves nothing
// on the wire for the resolver to have committed to.
func (inst *Instance) invokeAndReact(c *Conn) {
	for {
		if c.handler == nil && inst.corsEnabled && c.req.Method == string(MethodOptions) && c.req.CORSRequestHdrs != "" {
			c.handler = corsPreflightHandler
		}
		if c.handler == nil {
			entry, next, ok := inst.table.ResolveFrom(c.req.URL, c.routeIdx)
			if !ok {
				inst.respondBuiltin404(c)
				return
			}
			c.handler, c.arg1, c.arg2, c.routeIdx = entry.Handler, entry.Arg1, entry.Arg2, next
		}

		c.out.BeginLive()
		status := c.handler(c)

		if status == StatusNotFound || status == StatusAuthenticated {
			if c.sentAny {
				inst.logf(c.slot, ErrHandlerMisuse, "handler returned %s after sending output", status)
				status = StatusDone
			} else {
				c.out.EndLive()
				c.handler = nil
				continue
			}
		}

		inst.finishCycle(c, status)
		c.out.EndLive()
		return
	}
}

// respondBuiltin404 runs when the route table is exhausted without a match
// (§4.D). The built-in handler owns the entire response, including its own
// status line, so it never calls Conn.Respond.
func (inst *Instance) respondBuiltin404(c *Conn) {
	c.out.BeginLive()
	status := inst.notFound(c)
	inst.finishCycle(c, status)
	c.out.EndLive()
}

// finishCycle reacts to a handler's terminal status for this cycle: DONE
// closes framing (and, for a chunked connection, resets the Connection for
// reuse); MORE just flushes and waits for the next "sent" event.
func (inst *Instance) finishCycle(c *Conn, status Status) {
	send := inst.senderFor(c)
	switch status {
	case StatusMore:
		if dropped := c.out.Flush(send, false); dropped {
			inst.logf(c.slot, ErrBacklogFull, "flush backlog dropped bytes")
		}
	default: // StatusDone, or NOTFOUND/AUTHENTICATED coerced above
		terminate := c.flags.has(flagChunked)
		if dropped := c.out.Flush(send, terminate); dropped {
			inst.logf(c.slot, ErrBacklogFull, "flush backlog dropped bytes")
		}
		if c.flags.has(flagChunked) {
			c.resetForNextRequest()
		} else {
			c.flags |= flagDisconAfterSent
		}
	}
}

// senderFor adapts a Conn's transport into a framing.Sender, treating a
// cleared ("gone") transport handle as a refused send.
func (inst *Instance) senderFor(c *Conn) framing.Sender {
	return func(data []byte) bool {
		if c.transport == nil {
			return false
		}
		return c.transport.SendData(data)
	}
}
