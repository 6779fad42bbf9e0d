package utp

import (
	"bytes"
	"testing"

	"github.com/danmuck/parsedump/internal/testutil/testlog"
)

func TestClassify(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name    string
		payload []byte
		want    Class
	}{
		{name: "data", payload: []byte{0x01, 0x00, 0xff}, want: Data},
		{name: "ack", payload: []byte{0x21, 0x00}, want: Ack},
		{name: "connect", payload: []byte{0x41, 0x00, 0x12, 0x34}, want: Connect},
		{name: "announce", payload: []byte("BSYNC\x00d4:spam"), want: Announce},
		{name: "disconnect", payload: []byte{0x11, 0x00}, want: Disconnect},
		{name: "extension byte set", payload: []byte{0x01, 0x01}, want: Other},
		{name: "bsync without nul", payload: []byte("BSYNCx"), want: Other},
		{name: "single byte", payload: []byte{0x01}, want: Other},
		{name: "empty", payload: nil, want: Other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first := Classify(tc.payload)
			if first != tc.want {
				t.Fatalf("Classify(%x) = %v, want %v", tc.payload, first, tc.want)
			}
			if again := Classify(tc.payload); again != first || again.CSS() != first.CSS() {
				t.Fatalf("classification is not stable: %v then %v", first, again)
			}
		})
	}
}

func TestDroppedClasses(t *testing.T) {
	testlog.Start(t)
	for _, c := range Classes() {
		want := c == Ack || c == Announce
		if c.Dropped() != want {
			t.Fatalf("%v dropped=%v, want %v", c, c.Dropped(), want)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	testlog.Start(t)
	if s, ok := Connect.Placeholder(); !ok || s != "--connect--" {
		t.Fatalf("unexpected connect placeholder %q %v", s, ok)
	}
	if s, ok := Disconnect.Placeholder(); !ok || s != "--disconnect--" {
		t.Fatalf("unexpected disconnect placeholder %q %v", s, ok)
	}
	if _, ok := Data.Placeholder(); ok {
		t.Fatalf("data packets have no placeholder")
	}
}

func TestBody(t *testing.T) {
	testlog.Start(t)
	payload := append(bytes.Repeat([]byte{0xaa}, HeaderLen), 'x', 'y')
	if got := Body(payload); string(got) != "xy" {
		t.Fatalf("unexpected body %q", got)
	}
	if got := Body(payload[:5]); len(got) != 0 {
		t.Fatalf("expected empty body, got %x", got)
	}
}
