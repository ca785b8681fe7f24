// Package ehttpd implements the embedded-class HTTP/1.x server engine:
// a fixed connection-slot pool driven entirely by transport callbacks, an
// incremental header parser, chunked-transfer output framing with
// backpatch, a static route table, and a multi-cycle handler contract.
package ehttpd

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/BastianRuppert/ehttpd/config"
	"github.com/BastianRuppert/ehttpd/route"
)

// Instance is the engine's top-level handle (§2 "Instance"): it owns the
// fixed connection-slot pool, the static route table, and the resolved
// memory budgets, and serializes all access behind one mutex — the
// single-threaded cooperative concurrency model §1 calls for, realized with
// Go's native sync.Mutex rather than asking the transport to supply locking
// (see Transport's doc comment and DESIGN.md).
type Instance struct {
	mu sync.Mutex

	slots    []*Conn
	table    *route.Table[Handler]
	notFound Handler

	budgets     config.Budgets
	corsEnabled bool

	log *logrus.Entry
}

// NewInstance builds an Instance with a fixed-size slot pool sized from
// budgets.MaxConnections and the given route table. routes is copied;
// entries are matched in order, first match wins (component D).
func NewInstance(budgets config.Budgets, corsEnabled bool, routes []route.Entry[Handler]) *Instance {
	inst := &Instance{
		slots:       make([]*Conn, budgets.MaxConnections),
		table:       route.New(routes),
		notFound:    notFoundHandler,
		budgets:     budgets,
		corsEnabled: corsEnabled,
		log:         logrus.NewEntry(logrus.StandardLogger()),
	}
	return inst
}

// SetLogger overrides the structured logger used for diagnostics (§7).
func (inst *Instance) SetLogger(log *logrus.Entry) { inst.log = log }

// freeSlot returns the index of an unused slot, or -1 if the pool is full.
func (inst *Instance) freeSlot() int {
	for i, c := range inst.slots {
		if c == nil {
			return i
		}
	}
	return -1
}

// findByAddr performs the §4.F lookup policy: a linear scan over slots
// matching the (ip, port) tuple. It is a secondary identity key, not a
// primary one — small fixed pools make the scan cheap and avoid a second
// index to keep consistent.
func (inst *Instance) findByAddr(ip [4]byte, port uint16) *Conn {
	for _, c := range inst.slots {
		if c != nil && c.remoteIP == ip && c.remotePort == port {
			return c
		}
	}
	return nil
}
