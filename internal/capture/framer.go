package capture

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	hexLinePrefix = '\t'
	fieldSep      = "  "
	hostMarker    = " IP "

	// MaxLineBytes caps a single capture line.
	MaxLineBytes = 1 << 20
)

// Packet is one framed capture group.
type Packet struct {
	Index     int
	Line      int
	Host      string
	Direction Direction
	Data      []byte
}

// groupState is the packet being assembled: the header it started from and
// the hex digits collected so far.
type groupState struct {
	open      bool
	line      int
	host      string
	direction Direction
	digits    []byte
}

// Framer turns capture text into packets, one forward pass, no seeking.
type Framer struct {
	sc    *bufio.Scanner
	hosts HostMap
	state groupState
	line  int
	count int
	done  bool
}

func NewFramer(r io.Reader, hosts HostMap) *Framer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	return &Framer{sc: sc, hosts: hosts}
}

// Next returns the next packet, or io.EOF once the input is exhausted.
// A *FrameError or *InputError ends framing; later calls return io.EOF.
func (f *Framer) Next() (Packet, error) {
	if f.done {
		return Packet{}, io.EOF
	}
	for f.sc.Scan() {
		f.line++
		text := f.sc.Text()
		if text == "" {
			continue
		}
		if text[0] == hexLinePrefix {
			if err := f.appendHex(text); err != nil {
				f.done = true
				return Packet{}, err
			}
			continue
		}
		prev := f.state
		f.state = f.openGroup(text)
		if len(prev.digits) > 0 {
			return f.emit(prev)
		}
	}
	f.done = true
	if err := f.sc.Err(); err != nil {
		return Packet{}, &InputError{Line: f.line, Err: err}
	}
	last := f.state
	f.state = groupState{}
	if len(last.digits) > 0 {
		return f.emit(last)
	}
	return Packet{}, io.EOF
}

// Line reports how many input lines have been consumed.
func (f *Framer) Line() int {
	return f.line
}

func (f *Framer) openGroup(header string) groupState {
	host := parseHost(header)
	dir := f.hosts.Lookup(host)
	if host == "" {
		log.Debug().Int("line", f.line).Msg("header line without host marker")
	}
	return groupState{open: true, line: f.line, host: host, direction: dir}
}

func (f *Framer) appendHex(text string) error {
	if !f.state.open {
		log.Warn().Int("line", f.line).Msg("hex line before any header, skipped")
		return nil
	}
	digits, err := hexSegment(text)
	if err != nil {
		return &FrameError{Packet: f.count, Line: f.line, Err: err}
	}
	f.state.digits = append(f.state.digits, digits...)
	return nil
}

func (f *Framer) emit(g groupState) (Packet, error) {
	data := make([]byte, hex.DecodedLen(len(g.digits)))
	if _, err := hex.Decode(data, g.digits); err != nil {
		f.done = true
		return Packet{}, &FrameError{
			Packet: f.count,
			Line:   g.line,
			Err:    fmt.Errorf("%w: %w", ErrMalformedHex, err),
		}
	}
	pkt := Packet{
		Index:     f.count,
		Line:      g.line,
		Host:      g.host,
		Direction: g.direction,
		Data:      data,
	}
	f.count++
	return pkt, nil
}

// hexSegment returns the digits of the field between the first two
// double-space separators, with single spaces removed.
func hexSegment(line string) ([]byte, error) {
	fields := strings.SplitN(line, fieldSep, 3)
	if len(fields) < 2 {
		return nil, ErrMissingHexData
	}
	return []byte(strings.ReplaceAll(fields[1], " ", "")), nil
}

// parseHost returns up to HostPrefixLen characters following " IP ".
func parseHost(header string) string {
	i := strings.Index(header, hostMarker)
	if i < 0 {
		return ""
	}
	rest := header[i+len(hostMarker):]
	if len(rest) > HostPrefixLen {
		rest = rest[:HostPrefixLen]
	}
	return rest
}
