package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danmuck/parsedump/internal/capture"
	"github.com/danmuck/parsedump/internal/classify"
	"github.com/danmuck/parsedump/internal/protocol/utp"
	"github.com/danmuck/parsedump/internal/testutil/testlog"
)

func TestLineFormatsClassesLengthAndBody(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		frag classify.Fragment
		want string
	}{
		{
			name: "outbound data",
			frag: classify.Fragment{Direction: capture.Outbound, Class: utp.Data, Length: 5, Body: "cafe babe 01"},
			want: `<div class="outPkg dataPkg" data-len="5">   5:  cafe babe 01</div>`,
		},
		{
			name: "inbound connect",
			frag: classify.Fragment{Direction: capture.Inbound, Class: utp.Connect, Length: 0, Body: "--connect--"},
			want: `<div class="inPkg utpInitPkg" data-len="0">   0:  --connect--</div>`,
		},
		{
			name: "wide length",
			frag: classify.Fragment{Direction: capture.Unknown, Class: utp.Other, Length: 12345, Body: "ff"},
			want: `<div class="unknownPkg otherPkg" data-len="12345">12345:  ff</div>`,
		},
		{
			name: "header annotation",
			frag: classify.Fragment{Direction: capture.Outbound, Class: utp.Disconnect, Body: "--disconnect--", Header: `a > "b"`},
			want: `<div class="outPkg utpExitPkg" data-len="0" title="a &gt; &#34;b&#34;">   0:  --disconnect--</div>`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Line(tc.frag); got != tc.want {
				t.Fatalf("got  %s\nwant %s", got, tc.want)
			}
		})
	}
}

func TestPageShell(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	page := NewPage("")
	if err := page.WriteHeader(&buf); err != nil {
		t.Fatalf("header: %v", err)
	}
	if err := page.WriteFooter(&buf); err != nil {
		t.Fatalf("footer: %v", err)
	}
	doc := buf.String()

	for _, want := range []string{
		"<title>Btsync packet capture</title>",
		"function toggleVisibility(self)",
		`<div id="pkgContainer">`,
		`data-cls="utpInitPkg" data-text="utp connect">Hide utp connect Packets</div>`,
		`data-cls="dataPkg"`,
		`data-cls="utpExitPkg"`,
		`<!--	<div class="btn" onclick="toggleVisibility(this)" data-cls="ackPkg" data-text="Ack">Hide Ack Packets</div>-->`,
		`<!--	<div class="btn" onclick="toggleVisibility(this)" data-cls="announcePkg"`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("page shell missing %q", want)
		}
	}
	if !strings.HasSuffix(doc, "</div>\n</body>\n</html>\n") {
		t.Fatalf("page shell not closed: %q", doc[len(doc)-40:])
	}
	if strings.Contains(doc, "http://") || strings.Contains(doc, "https://") {
		t.Fatalf("page shell must not fetch external resources")
	}
}

func TestPageTitleIsEscaped(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	if err := NewPage("<dump> & co").WriteHeader(&buf); err != nil {
		t.Fatalf("header: %v", err)
	}
	if !strings.Contains(buf.String(), "<title>&lt;dump&gt; &amp; co</title>") {
		t.Fatalf("title not escaped: %s", buf.String()[:80])
	}
}
