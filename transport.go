package ehttpd

// Transport is the external collaborator this engine drives but never
// implements (§1 OUT OF SCOPE, §6 required capabilities). A concrete
// transport — a raw socket adapter, an event-loop TCP stack, whatever the
// platform provides — calls the engine's On* entry points passing itself as
// the per-connection handle, and the engine calls back into that same
// handle to move bytes and manage timers. One Transport value corresponds
// to exactly one connection's lifetime, the way the original's opaque
// "transport" pointer argument does.
//
// Unlike the original C engine, instance-wide mutual exclusion
// (platLock/platUnlock) is not part of this interface: Go already has a
// native, platform-appropriate primitive for that (sync.Mutex), so Instance
// owns its own lock instead of asking the transport to supply one — see
// DESIGN.md's Open Question on this.
type Transport interface {
	// SendData attempts to submit data for immediate delivery. It returns
	// whether the transport accepted it.
	SendData(data []byte) bool
	// Disconnect initiates a close of the connection.
	Disconnect()
	// DisableTimeout suspends the transport's inactivity timer, used
	// while a handler has installed a RecvHandler and may run for an
	// extended, event-driven period (§5).
	DisableTimeout()
}
