// Package dump runs the whole conversion: frame the capture text, classify
// each packet and write the HTML document.
package dump

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/parsedump/internal/capture"
	"github.com/danmuck/parsedump/internal/classify"
	"github.com/danmuck/parsedump/internal/observability"
	"github.com/danmuck/parsedump/internal/protocol/bsync"
	"github.com/danmuck/parsedump/internal/protocol/utp"
	"github.com/danmuck/parsedump/internal/render"
	"github.com/rs/zerolog/log"
)

// NoLimit disables the packet limit.
const NoLimit = -1

var ErrInvalidLimit = errors.New("dump: packet limit must be zero or positive")

type Options struct {
	Hosts capture.HostMap
	// Limit caps the number of framed packets consumed, dropped ones
	// included. Zero reads nothing; NoLimit reads everything.
	Limit           int
	Decode          bool
	AnnotateHeaders bool
	Title           string
}

// Stats describes a finished run. InputErr and OutputErr are the read and
// write failures that ended the run without failing it.
type Stats struct {
	Framed    int
	Rendered  int
	Dropped   int
	ByClass   map[utp.Class]int
	InputErr  error
	OutputErr error
}

// Run converts the capture text on r into one HTML document on w. The
// document is built in memory and only written once the whole input was
// processed, so a fatal framing or decode error leaves w untouched.
func Run(r io.Reader, w io.Writer, opts Options) (Stats, error) {
	stats := Stats{ByClass: make(map[utp.Class]int)}
	if opts.Limit < NoLimit {
		return stats, fmt.Errorf("%w: %d", ErrInvalidLimit, opts.Limit)
	}

	var doc bytes.Buffer
	page := render.NewPage(opts.Title)
	if err := page.WriteHeader(&doc); err != nil {
		return stats, err
	}

	framer := capture.NewFramer(r, opts.Hosts)
	classifier := classify.Classifier{Decode: opts.Decode, AnnotateHeaders: opts.AnnotateHeaders}
	for opts.Limit == NoLimit || stats.Framed < opts.Limit {
		pkt, err := framer.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var inputErr *capture.InputError
		if errors.As(err, &inputErr) {
			log.Warn().Err(err).Int("packets", stats.Framed).Msg("input ended early, closing document")
			stats.InputErr = err
			break
		}
		if err != nil {
			observability.RecordRun(observability.RunFailed)
			return stats, err
		}
		stats.Framed++

		frag, keep, err := classifier.Classify(pkt)
		if err != nil {
			observability.RecordRun(observability.RunFailed)
			return stats, err
		}
		stats.ByClass[frag.Class]++
		observability.RecordPacket(pkt.Direction.String(), frag.Class.String(), keep, frag.Length)
		if !keep {
			stats.Dropped++
			continue
		}
		if frag.Envelope != bsync.None {
			observability.RecordDecode(frag.Envelope.String(), frag.Format.String())
		}
		log.Trace().
			Int("packet", pkt.Index).
			Int("line", pkt.Line).
			Str("direction", pkt.Direction.String()).
			Str("class", frag.Class.String()).
			Int("len", frag.Length).
			Msg("packet rendered")
		doc.WriteString(render.Line(frag))
		doc.WriteByte('\n')
		stats.Rendered++
	}

	if err := page.WriteFooter(&doc); err != nil {
		return stats, err
	}
	if _, err := doc.WriteTo(w); err != nil {
		log.Debug().Err(err).Msg("output closed before the document was written")
		stats.OutputErr = err
	}

	if stats.InputErr != nil {
		observability.RecordRun(observability.RunInputError)
	} else {
		observability.RecordRun(observability.RunOK)
	}
	log.Debug().
		Int("framed", stats.Framed).
		Int("rendered", stats.Rendered).
		Int("dropped", stats.Dropped).
		Msg("capture converted")
	return stats, nil
}
