package bsync

import (
	"github.com/danmuck/parsedump/internal/protocol/bencode"
)

type Format uint8

const (
	FormatJSON Format = iota
	FormatNative
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "native"
}

// Tree is the readable form of a message value. Err holds the JSON failure
// when Format is FormatNative.
type Tree struct {
	Text   string
	Format Format
	Err    error
}

const jsonIndent = "  "

// Render hex-encodes sensitive fields, then renders indented JSON, falling
// back to the native form when the value cannot be shown as JSON.
func Render(v bencode.Value) Tree {
	v = HexFields(v)
	out, err := bencode.JSON(v, jsonIndent)
	if err != nil {
		return Tree{Text: v.String(), Format: FormatNative, Err: err}
	}
	return Tree{Text: string(out), Format: FormatJSON}
}
