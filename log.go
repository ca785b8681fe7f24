package ehttpd

import "github.com/sirupsen/logrus"

// logf logs through a structured logrus entry tagged with the connection
// slot so a diagnostic can be traced back to one connection. It is the one
// place §7's "drops silently with diagnostic" policy is actually
// implemented.
func (inst *Instance) logf(slot int, err error, format string, args ...any) {
	entry := inst.log
	if slot >= 0 {
		entry = entry.WithField("slot", slot)
	}
	if err != nil {
		entry = entry.WithField("reason", err)
	}
	entry.Debugf(format, args...)
}
