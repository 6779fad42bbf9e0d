// Package bsync locates and decodes bencoded BitTorrent Sync messages
// carried inside uTP data.
//
// Two layouts are recognised. A framed message starts with the BSYNC
// signature followed by a 4-byte frame length. A bare message starts with
// two zero bytes and a 2-byte length. Only the first message of a packet is
// decoded: a bare packet holding several frames shows the first one and
// ignores the rest.
package bsync

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/danmuck/parsedump/internal/protocol/bencode"
)

// Signature opens a framed message.
var Signature = []byte("BSYNC\x00")

const (
	// FramedOffset skips the signature and the frame length.
	FramedOffset = 10
	// BareOffset skips the two zero bytes and the frame length.
	BareOffset = 4
)

var barePrefix = []byte{0x00, 0x00}

type Envelope uint8

const (
	None Envelope = iota
	Framed
	Bare
)

func (e Envelope) String() string {
	switch e {
	case Framed:
		return "framed"
	case Bare:
		return "bare"
	default:
		return "none"
	}
}

// Label is prepended to the rendered tree.
func (e Envelope) Label() string {
	if e == Framed {
		return "BSYNC: "
	}
	return ""
}

// Detect reports which layout body (uTP header removed) uses.
func Detect(body []byte) Envelope {
	switch {
	case bytes.HasPrefix(body, Signature):
		return Framed
	case bytes.HasPrefix(body, barePrefix):
		return Bare
	default:
		return None
	}
}

// Message is a decoded envelope.
type Message struct {
	Envelope Envelope
	Value    bencode.Value
}

// Decode decodes the first message in body. It returns false when body
// carries no recognised envelope. Decode errors are structural and are
// returned unchanged.
func Decode(body []byte) (Message, bool, error) {
	env := Detect(body)
	var offset int
	switch env {
	case Framed:
		offset = FramedOffset
	case Bare:
		offset = BareOffset
	default:
		return Message{}, false, nil
	}
	if offset > len(body) {
		offset = len(body)
	}
	v, _, err := bencode.Decode(body[offset:])
	if err != nil {
		return Message{}, false, fmt.Errorf("bsync: %s message: %w", env, err)
	}
	return Message{Envelope: env, Value: v}, true, nil
}

// SensitiveKeys name top-level fields holding key material or nonces.
var SensitiveKeys = []string{"nonce", "share", "salt", "resp", "pub", "sid"}

// HexFields replaces the byte-string values of SensitiveKeys in a top-level
// dict with "<len>: <hex>". Other kinds are left as they are.
func HexFields(v bencode.Value) bencode.Value {
	if v.Kind != bencode.KindDict {
		return v
	}
	out := v
	for _, key := range SensitiveKeys {
		field, ok := out.Get(key)
		if !ok || field.Kind != bencode.KindBytes {
			continue
		}
		out = out.With(key, bencode.NewString(hexField(field.Bytes)))
	}
	return out
}

func hexField(b []byte) string {
	return fmt.Sprintf("%d: %s", len(b), hex.EncodeToString(b))
}
