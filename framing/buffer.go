// Package framing implements the per-connection output framing buffer
// (component A): it accumulates response bytes for the current "live span",
// performs the chunked-transfer length backpatch, and spills to a bounded
// FIFO backlog when the transport refuses a flush — the async
// send-buffer/backlog scheme described in §4.A.
package framing

import "fmt"

// chunkHdrLen is the width of the reserved ASCII hex chunk-size slot:
// 4 hex digits followed by CRLF.
const chunkHdrLen = 6

// Sender is the transport-facing primitive a Buffer flushes through.
// It mirrors platSendData: true means the transport accepted the bytes.
type Sender func(data []byte) bool

// Buffer is the live send buffer plus backlog for one connection. It is not
// safe for concurrent use; callers serialize access under the instance
// lock, per §5.
type Buffer struct {
	sendMax    int
	backlogMax int

	live      bool
	buf       []byte
	chunkHdrAt int // -1 when no reservation is outstanding

	backlog     [][]byte
	backlogSize int
}

// New creates a Buffer bounded by sendMax (SENDBUF_MAX) bytes per flush and
// backlogMax (BACKLOG_MAX) bytes of queued backlog.
func New(sendMax, backlogMax int) *Buffer {
	return &Buffer{sendMax: sendMax, backlogMax: backlogMax, chunkHdrAt: -1}
}

// BeginLive opens a live span: the send buffer becomes valid for Send calls.
func (b *Buffer) BeginLive() {
	b.live = true
	if b.buf == nil {
		b.buf = make([]byte, 0, b.sendMax)
	} else {
		b.buf = b.buf[:0]
	}
}

// EndLive closes the live span. Send calls made outside of one are invalid.
func (b *Buffer) EndLive() { b.live = false }

// Live reports whether a live span is open.
func (b *Buffer) Live() bool { return b.live }

// HasChunkHeader reports whether a chunk-size slot is currently reserved
// and awaiting backpatch (§3 invariant 4).
func (b *Buffer) HasChunkHeader() bool { return b.chunkHdrAt >= 0 }

// BacklogSize returns the current total queued backlog bytes.
func (b *Buffer) BacklogSize() int { return b.backlogSize }

// BacklogEmpty reports whether there is nothing queued to drain.
func (b *Buffer) BacklogEmpty() bool { return len(b.backlog) == 0 }

// Send appends data to the live buffer. If wantChunkHeader is set (the
// connection is CHUNKED and currently SENDING_BODY) and no chunk header is
// reserved yet, a 6-byte placeholder ("0000\r\n") is reserved first. Send
// fails without mutating the buffer if the span isn't live, the reservation
// itself wouldn't fit, or appending data would overflow sendMax.
func (b *Buffer) Send(data []byte, wantChunkHeader bool) bool {
	if !b.live {
		return false
	}
	needReserve := wantChunkHeader && b.chunkHdrAt < 0
	extra := 0
	if needReserve {
		extra = chunkHdrLen
	}
	if len(b.buf)+extra+len(data) > b.sendMax {
		return false
	}
	if needReserve {
		b.chunkHdrAt = len(b.buf)
		b.buf = append(b.buf, '0', '0', '0', '0', '\r', '\n')
	}
	b.buf = append(b.buf, data...)
	return true
}

// Flush backpatches any outstanding chunk header, optionally appends the
// zero-length terminal chunk, and hands the live buffer to send. On
// transport refusal the bytes are queued to the backlog (copied, since buf
// is reused on the next live span) up to backlogMax; beyond that they are
// dropped and the caller should log a diagnostic. The live buffer is always
// left empty afterward.
func (b *Buffer) Flush(send Sender, terminateChunk bool) (dropped bool) {
	if b.chunkHdrAt >= 0 {
		b.buf = append(b.buf, '\r', '\n')
		payloadLen := len(b.buf) - b.chunkHdrAt - chunkHdrLen - 2
		hex := fmt.Sprintf("%04X", payloadLen)
		copy(b.buf[b.chunkHdrAt:b.chunkHdrAt+4], hex)
		b.chunkHdrAt = -1
	}
	if terminateChunk {
		b.buf = append(b.buf, '0', '\r', '\n', '\r', '\n')
	}
	if len(b.buf) > 0 {
		if !send(b.buf) {
			dropped = b.enqueue(b.buf)
		}
	}
	b.buf = b.buf[:0]
	return dropped
}

// enqueue copies data into the backlog if it fits under backlogMax,
// otherwise it is dropped and enqueue reports that as "dropped".
func (b *Buffer) enqueue(data []byte) (dropped bool) {
	if b.backlogSize+len(data) > b.backlogMax {
		return true
	}
	item := append([]byte(nil), data...)
	b.backlog = append(b.backlog, item)
	b.backlogSize += len(item)
	return false
}

// DrainOne attempts to send the oldest backlog item. On success it is
// removed and BacklogSize shrinks; on refusal it remains at the head of the
// queue for the next attempt (no data loss across a refused resend). It
// reports whether there was an item to drain at all.
func (b *Buffer) DrainOne(send Sender) (hadItem bool) {
	if len(b.backlog) == 0 {
		return false
	}
	head := b.backlog[0]
	if !send(head) {
		return true
	}
	b.backlogSize -= len(head)
	b.backlog = b.backlog[1:]
	return true
}

// Reset discards any buffered state, backlog included. The engine itself
// does not call it: a connection reused after DONE keeps its backlog for
// draining.
func (b *Buffer) Reset() {
	b.live = false
	b.buf = b.buf[:0]
	b.chunkHdrAt = -1
	b.backlog = nil
	b.backlogSize = 0
}
