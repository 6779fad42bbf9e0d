package render

import (
	"fmt"
	"io"
	"text/template"
)

const DefaultTitle = "Btsync packet capture"

// Button toggles every fragment carrying Class. Disabled buttons are
// written as HTML comments so they can be switched back on by hand.
type Button struct {
	Class    string
	Text     string
	Disabled bool
}

// DefaultButtons mirrors the packet classes that reach the output. Ack and
// announce packets are filtered before rendering, so their buttons stay off.
var DefaultButtons = []Button{
	{Class: "announcePkg", Text: "BSYNC Announce", Disabled: true},
	{Class: "ackPkg", Text: "Ack", Disabled: true},
	{Class: "utpInitPkg", Text: "utp connect"},
	{Class: "dataPkg", Text: "Data"},
	{Class: "utpExitPkg", Text: "utp disconnect"},
}

// Page is the document shell around the fragment lines.
type Page struct {
	Title   string
	Buttons []Button
}

func NewPage(title string) Page {
	if title == "" {
		title = DefaultTitle
	}
	return Page{Title: title, Buttons: DefaultButtons}
}

// WriteHeader writes everything up to and including the opening of the
// fragment container.
func (p Page) WriteHeader(w io.Writer) error {
	if err := headerTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render: page header: %w", err)
	}
	return nil
}

// WriteFooter closes the fragment container and the document.
func (p Page) WriteFooter(w io.Writer) error {
	if _, err := io.WriteString(w, footer); err != nil {
		return fmt.Errorf("render: page footer: %w", err)
	}
	return nil
}

const footer = "</div>\n</body>\n</html>\n"

var headerTmpl = template.Must(template.New("header").Parse(headerText))

const headerText = `<html>
<head>
<title>{{html .Title}}</title>
<script>
	function toggleVisibility(self) {
		var cls = self.dataset['cls'];
		var hidden = self.classList.toggle('hidden');
		document.querySelectorAll('.' + cls).forEach(function (el) {
			el.style.display = hidden ? 'none' : '';
		});
		var txtState = hidden ? 'Show' : 'Hide';
		self.textContent = txtState + ' ' + self.dataset['text'] + ' Packets';
	}
</script>
<style>

* {
	box-sizing: border-box;
	margin: 0;
	padding: 0;
}

html, body {
	height: 100%;
	width: 100%;
}

#btnBar {
	position: absolute;
	top: 0;
	left: 0;
	height: 36px;
	width: 100%;
	background-color: white;
	border-bottom: 1px solid #ccc;
	padding: 2px;
	margin-bottom: 1em;
}

#pkgContainer {
	height: 100%;
	width: 100%;
	overflow: auto;
	padding-top: 38px;
}
.inPkg, .outPkg {
	font-family: monospace;
	white-space: pre;
}
.outPkg {
	font-weight: bold;
	color: red;
}
.announcePkg {
	color: #ccc;
}
.unknownPkg {
	color: #aaa;
}
.bsyncString {
	border-bottom: 1px solid black;
}

.btn {
	cursor: pointer;
	border: 2px outset #ccc;
	background-color: #ccc;
	display: inline-block;
	padding: 3px;
}

#btnBar .hidden {
	background-color: #eee;
}

pre {
	margin-left: 4em;
}
</style>
</head>
<body>
<div id="btnBar">
{{- range .Buttons}}
{{if .Disabled}}<!--{{end}}	<div class="btn" onclick="toggleVisibility(this)" data-cls="{{html .Class}}" data-text="{{html .Text}}">Hide {{html .Text}} Packets</div>{{if .Disabled}}-->{{end}}
{{- end}}
</div>
<div id="pkgContainer">
`
