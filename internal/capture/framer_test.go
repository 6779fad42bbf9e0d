package capture

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/danmuck/parsedump/internal/testutil/dumptext"
	"github.com/danmuck/parsedump/internal/testutil/testlog"
)

func testHosts(t *testing.T) HostMap {
	t.Helper()
	hosts, err := NewHostMap([]string{"recharge"}, []string{"raspberrypi"})
	if err != nil {
		t.Fatalf("host map: %v", err)
	}
	return hosts
}

func collect(t *testing.T, f *Framer) []Packet {
	t.Helper()
	var out []Packet
	for {
		pkt, err := f.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		out = append(out, pkt)
	}
}

func TestFramerYieldsOnePacketPerGroupInOrder(t *testing.T) {
	testlog.Start(t)
	payloads := [][]byte{
		bytes.Repeat([]byte{0x01}, 3),
		bytes.Repeat([]byte{0xab}, 40),
		{0x00},
		bytes.Repeat([]byte{0x7f}, 16),
	}
	hosts := []string{"recharge.local", "raspberrypi.local", "printer.lan", "recharge"}
	var in strings.Builder
	for i, p := range payloads {
		in.WriteString(dumptext.Packet(hosts[i], p))
	}

	got := collect(t, NewFramer(strings.NewReader(in.String()), testHosts(t)))
	if len(got) != len(payloads) {
		t.Fatalf("expected %d packets, got %d", len(payloads), len(got))
	}
	wantDir := []Direction{Outbound, Inbound, Unknown, Outbound}
	for i, pkt := range got {
		if pkt.Index != i {
			t.Fatalf("packet %d has index %d", i, pkt.Index)
		}
		if !bytes.Equal(pkt.Data, payloads[i]) {
			t.Fatalf("packet %d data mismatch: %x", i, pkt.Data)
		}
		if pkt.Direction != wantDir[i] {
			t.Fatalf("packet %d direction %v, want %v", i, pkt.Direction, wantDir[i])
		}
	}
	if got[2].Host != "prin" {
		t.Fatalf("unexpected host identifier %q", got[2].Host)
	}
}

func TestFramerSkipsEmptyLinesAndEmptyGroups(t *testing.T) {
	testlog.Start(t)
	in := strings.Join([]string{
		"",
		dumptext.Header("recharge", 0),
		"",
		dumptext.Header("raspberrypi", 2),
		"\t0x0000:  beef                                     ..",
		"",
		dumptext.Header("recharge", 0),
	}, "\n")

	got := collect(t, NewFramer(strings.NewReader(in), testHosts(t)))
	if len(got) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(got))
	}
	if got[0].Direction != Inbound || !bytes.Equal(got[0].Data, []byte{0xbe, 0xef}) {
		t.Fatalf("unexpected packet: %+v", got[0])
	}
	if got[0].Line != 4 {
		t.Fatalf("packet should point at its header line, got %d", got[0].Line)
	}
}

func TestFramerConcatenatesHexAcrossLines(t *testing.T) {
	testlog.Start(t)
	data := make([]byte, 37)
	for i := range data {
		data[i] = byte(i * 7)
	}
	got := collect(t, NewFramer(strings.NewReader(dumptext.Packet("rasp", data)), testHosts(t)))
	if len(got) != 1 || !bytes.Equal(got[0].Data, data) {
		t.Fatalf("unexpected packets: %+v", got)
	}
}

func TestFramerMalformedHexIsFatal(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		hex  string
	}{
		{name: "odd digit count", hex: "\t0x0000:  abc  .."},
		{name: "non hex digit", hex: "\t0x0000:  zz00  .."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := dumptext.Packet("recharge", []byte{1, 2}) + dumptext.Header("recharge", 2) + "\n" + tc.hex + "\n"
			f := NewFramer(strings.NewReader(in), testHosts(t))
			if _, err := f.Next(); err != nil {
				t.Fatalf("first packet: %v", err)
			}
			_, err := f.Next()
			if !errors.Is(err, ErrMalformedHex) {
				t.Fatalf("expected ErrMalformedHex, got %v", err)
			}
			var fe *FrameError
			if !errors.As(err, &fe) || fe.Packet != 1 || fe.Line != 3 {
				t.Fatalf("unexpected frame error: %#v", err)
			}
			if _, err := f.Next(); !errors.Is(err, io.EOF) {
				t.Fatalf("framer should stop after a fatal error, got %v", err)
			}
		})
	}
}

func TestFramerHexLineWithoutDataField(t *testing.T) {
	testlog.Start(t)
	in := dumptext.Header("recharge", 1) + "\n\t0x0000:\n"
	_, err := NewFramer(strings.NewReader(in), testHosts(t)).Next()
	if !errors.Is(err, ErrMissingHexData) {
		t.Fatalf("expected ErrMissingHexData, got %v", err)
	}
}

func TestFramerHeaderWithoutHostMarker(t *testing.T) {
	testlog.Start(t)
	in := "21:03:17.514222 ARP, Request who-has 10.0.0.1\n\t0x0000:  0001  ..\n"
	got := collect(t, NewFramer(strings.NewReader(in), testHosts(t)))
	if len(got) != 1 || got[0].Direction != Unknown || got[0].Host != "" {
		t.Fatalf("unexpected packets: %+v", got)
	}
}

func TestFramerSkipsHexBeforeFirstHeader(t *testing.T) {
	testlog.Start(t)
	in := "\t0x0000:  ffff  ..\n" + dumptext.Packet("recharge", []byte{0x01})
	got := collect(t, NewFramer(strings.NewReader(in), testHosts(t)))
	if len(got) != 1 || !bytes.Equal(got[0].Data, []byte{0x01}) {
		t.Fatalf("unexpected packets: %+v", got)
	}
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestFramerReadFailureIsInputError(t *testing.T) {
	testlog.Start(t)
	boom := errors.New("pipe closed")
	text := dumptext.Packet("recharge", []byte{1}) + dumptext.Packet("rasp", []byte{2})
	f := NewFramer(&failingReader{data: []byte(text), err: boom}, testHosts(t))

	first, err := f.Next()
	if err != nil || first.Data[0] != 1 {
		t.Fatalf("first packet: %+v %v", first, err)
	}
	_, err = f.Next()
	var ie *InputError
	if !errors.As(err, &ie) || !errors.Is(err, boom) {
		t.Fatalf("expected InputError wrapping read failure, got %v", err)
	}
	if _, err := f.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF after input error, got %v", err)
	}
}
