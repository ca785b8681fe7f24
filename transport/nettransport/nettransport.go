// Package nettransport is the reference Transport (engine's external
// collaborator, §6) for ehttpd: it bridges a blocking net.Listener/net.Conn
// pair into the engine's non-blocking callback model, the way badu-http's
// tcp_keep_alive_listener.go and conn.go bridge net.Conn into their own
// server loop — one goroutine per accepted connection reads and calls
// OnRecv/OnDisconnect; sends are synchronous writes reported back as
// accept/refuse through SendData.
package nettransport

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BastianRuppert/ehttpd"
)

// Listener drives an *ehttpd.Instance from a real TCP listener.
type Listener struct {
	inst *ehttpd.Instance
	ln   net.Listener
	log  *logrus.Entry

	idleTimeout time.Duration
}

// New wraps ln to drive inst. idleTimeout is the per-connection inactivity
// timeout enforced between reads, unless a handler has disabled it via
// Conn.SetRecvHandler (§5).
func New(inst *ehttpd.Instance, ln net.Listener, idleTimeout time.Duration, log *logrus.Entry) *Listener {
	return &Listener{inst: inst, ln: ln, log: log, idleTimeout: idleTimeout}
}

// Serve accepts connections until the listener is closed.
func (l *Listener) Serve() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return err
		}
		go l.handle(conn)
	}
}

// conn is the per-connection Transport implementation: it owns the raw
// net.Conn and whether its inactivity timer is currently suspended.
type conn struct {
	nc          net.Conn
	idleTimeout time.Duration
	timeoutOff  bool
}

func (c *conn) SendData(data []byte) bool {
	if c.nc == nil {
		return false
	}
	_, err := c.nc.Write(data)
	return err == nil
}

func (c *conn) Disconnect() {
	if c.nc != nil {
		c.nc.Close()
	}
}

func (c *conn) DisableTimeout() { c.timeoutOff = true }

func addrParts(a net.Addr) (ip [4]byte, port uint16) {
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return ip, 0
	}
	v4 := tcp.IP.To4()
	if v4 != nil {
		copy(ip[:], v4)
	}
	return ip, uint16(tcp.Port)
}

func (l *Listener) handle(nc net.Conn) {
	c := &conn{nc: nc, idleTimeout: l.idleTimeout}
	ip, port := addrParts(nc.RemoteAddr())

	if !ehttpd.OnConnect(l.inst, c, ip, port) {
		l.log.WithField("remote", nc.RemoteAddr()).Warn("connection slot pool full, rejecting")
		nc.Close()
		return
	}
	defer func() {
		ehttpd.OnDisconnect(l.inst, c, ip, port)
	}()

	buf := make([]byte, 4096)
	for {
		if l.idleTimeout > 0 && !c.timeoutOff {
			nc.SetReadDeadline(time.Now().Add(l.idleTimeout))
		} else {
			nc.SetReadDeadline(time.Time{})
		}
		n, err := nc.Read(buf)
		if n > 0 {
			ehttpd.OnRecv(l.inst, c, ip, port, buf[:n])
			ehttpd.OnSent(l.inst, c, ip, port)
		}
		if err != nil {
			return
		}
	}
}
