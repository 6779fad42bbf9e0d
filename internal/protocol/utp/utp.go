// Package utp classifies uTP datagrams by the type/extension bytes at the
// start of the UDP payload.
package utp

import (
	"bytes"

	"github.com/danmuck/parsedump/internal/protocol/bsync"
)

// HeaderLen is the fixed uTP header span removed before formatting.
const HeaderLen = 20

type Class uint8

const (
	Other Class = iota
	Data
	Ack
	Connect
	Announce
	Disconnect
)

// rules are evaluated in order; the first matching prefix wins.
var rules = []struct {
	prefix []byte
	class  Class
}{
	{prefix: []byte{0x01, 0x00}, class: Data},
	{prefix: []byte{0x21, 0x00}, class: Ack},
	{prefix: []byte{0x41, 0x00}, class: Connect},
	{prefix: bsync.Signature, class: Announce},
	{prefix: []byte{0x11, 0x00}, class: Disconnect},
}

// Classify returns the class of a UDP payload (IP+UDP span removed).
func Classify(payload []byte) Class {
	for _, r := range rules {
		if bytes.HasPrefix(payload, r.prefix) {
			return r.class
		}
	}
	return Other
}

// Dropped reports whether packets of this class are left out of the output.
func (c Class) Dropped() bool {
	return c == Ack || c == Announce
}

// Placeholder returns the fixed body text for classes whose bytes are not
// shown.
func (c Class) Placeholder() (string, bool) {
	switch c {
	case Connect:
		return "--connect--", true
	case Disconnect:
		return "--disconnect--", true
	default:
		return "", false
	}
}

// CSS is the class name used in the rendered document.
func (c Class) CSS() string {
	switch c {
	case Data:
		return "dataPkg"
	case Ack:
		return "ackPkg"
	case Connect:
		return "utpInitPkg"
	case Announce:
		return "announcePkg"
	case Disconnect:
		return "utpExitPkg"
	default:
		return "otherPkg"
	}
}

func (c Class) String() string {
	switch c {
	case Data:
		return "data"
	case Ack:
		return "ack"
	case Connect:
		return "connect"
	case Announce:
		return "announce"
	case Disconnect:
		return "disconnect"
	default:
		return "other"
	}
}

// Classes lists every class in a stable order.
func Classes() []Class {
	return []Class{Data, Ack, Connect, Announce, Disconnect, Other}
}

// Body drops the uTP header. Shorter input yields an empty body.
func Body(payload []byte) []byte {
	if len(payload) <= HeaderLen {
		return payload[len(payload):]
	}
	return payload[HeaderLen:]
}
