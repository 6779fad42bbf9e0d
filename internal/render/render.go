// Package render writes classified fragments as HTML: one div per packet
// inside a static page shell with show/hide buttons per packet class.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/danmuck/parsedump/internal/classify"
)

// Line returns the div for one fragment. The body is inserted as is; the
// classifier has already escaped any decoded text.
func Line(f classify.Fragment) string {
	var sb strings.Builder
	sb.Grow(len(f.Body) + 64)
	fmt.Fprintf(&sb, `<div class="%s" data-len="%d"`, strings.Join(f.Classes(), " "), f.Length)
	if f.Header != "" {
		fmt.Fprintf(&sb, ` title="%s"`, html.EscapeString(f.Header))
	}
	fmt.Fprintf(&sb, ">%4d:  %s</div>", f.Length, f.Body)
	return sb.String()
}
