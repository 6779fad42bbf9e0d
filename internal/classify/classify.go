// Package classify turns framed packets into display fragments: it strips
// the IP/UDP and uTP headers, assigns the uTP class, drops filtered classes
// and optionally decodes the BSYNC message carried in the payload.
package classify

import (
	"encoding/hex"
	"fmt"
	"html"
	"strings"

	"github.com/danmuck/parsedump/internal/capture"
	"github.com/danmuck/parsedump/internal/protocol/bsync"
	"github.com/danmuck/parsedump/internal/protocol/ipudp"
	"github.com/danmuck/parsedump/internal/protocol/utp"
	"github.com/rs/zerolog/log"
)

// SignatureClass marks highlighted BSYNC signatures in the body.
const SignatureClass = "bsyncString"

var signatureGroups = HexGroups(bsync.Signature)

// Fragment is one classified packet ready for rendering.
type Fragment struct {
	Index     int
	Line      int
	Direction capture.Direction
	Class     utp.Class
	Length    int
	Body      string
	Header    string
	Envelope  bsync.Envelope
	Format    bsync.Format
}

// Classes returns the direction and type class names.
func (f Fragment) Classes() []string {
	return []string{DirectionCSS(f.Direction), f.Class.CSS()}
}

func DirectionCSS(d capture.Direction) string {
	switch d {
	case capture.Outbound:
		return "outPkg"
	case capture.Inbound:
		return "inPkg"
	default:
		return "unknownPkg"
	}
}

// PacketError is a fatal failure decoding one packet's payload.
type PacketError struct {
	Index int
	Line  int
	Err   error
}

func (e *PacketError) Error() string {
	return fmt.Sprintf("classify: packet %d (line %d): %v", e.Index, e.Line, e.Err)
}

func (e *PacketError) Unwrap() error {
	return e.Err
}

type Classifier struct {
	// Decode enables BSYNC message decoding for data and other packets.
	Decode bool
	// AnnotateHeaders fills Fragment.Header from the IP/UDP span.
	AnnotateHeaders bool
}

// Classify builds the fragment for pkt. The boolean is false when the
// packet's class is filtered out; the returned fragment then only carries
// identification and class. Errors are structural decode failures.
func (c Classifier) Classify(pkt capture.Packet) (Fragment, bool, error) {
	payload := ipudp.Strip(pkt.Data)
	class := utp.Classify(payload)
	frag := Fragment{
		Index:     pkt.Index,
		Line:      pkt.Line,
		Direction: pkt.Direction,
		Class:     class,
	}
	if class.Dropped() {
		return frag, false, nil
	}

	body := utp.Body(payload)
	frag.Length = len(body)
	if c.AnnotateHeaders {
		if sum, ok := ipudp.Summarize(pkt.Data); ok {
			frag.Header = sum.String()
		}
	}

	text, fixed := class.Placeholder()
	if !fixed {
		text = HexGroups(body)
		if c.Decode {
			msg, found, err := bsync.Decode(body)
			if err != nil {
				return Fragment{}, false, &PacketError{Index: pkt.Index, Line: pkt.Line, Err: err}
			}
			if found {
				tree := bsync.Render(msg.Value)
				if tree.Err != nil {
					log.Debug().
						Int("packet", pkt.Index).
						Err(tree.Err).
						Msg("message not representable as json, using native form")
				}
				frag.Envelope = msg.Envelope
				frag.Format = tree.Format
				text = msg.Envelope.Label() + treeMarkup(tree)
			}
		}
	}
	frag.Body = HighlightSignature(text)
	return frag, true, nil
}

// HexGroups renders b as lowercase hex in space-separated 4-digit groups.
func HexGroups(b []byte) string {
	digits := hex.EncodeToString(b)
	if digits == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(digits) + len(digits)/4)
	for i := 0; i < len(digits); i += 4 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		sb.WriteString(digits[i:end])
	}
	return sb.String()
}

// HighlightSignature wraps every grouped-hex BSYNC signature in text.
func HighlightSignature(text string) string {
	return strings.ReplaceAll(text, signatureGroups,
		`<span class="`+SignatureClass+`">`+signatureGroups+`</span>`)
}

func treeMarkup(tree bsync.Tree) string {
	escaped := html.EscapeString(tree.Text)
	if tree.Format == bsync.FormatJSON {
		return "<pre>" + escaped + "</pre>"
	}
	return escaped
}
