package bencode

import (
	"bytes"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindInt Kind = iota + 1
	KindBytes
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value is one decoded bencode value. Only the field matching Kind is set.
type Value struct {
	Kind  Kind
	Int   int64
	Bytes []byte
	List  []Value
	Dict  []Entry
}

// Entry is one dict member. Keys are raw bytes held in a string.
type Entry struct {
	Key   string
	Value Value
}

func NewInt(n int64) Value {
	return Value{Kind: KindInt, Int: n}
}

func NewBytes(b []byte) Value {
	buf := make([]byte, len(b))
	copy(buf, b)
	return Value{Kind: KindBytes, Bytes: buf}
}

func NewString(s string) Value {
	return Value{Kind: KindBytes, Bytes: []byte(s)}
}

func NewList(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, List: items}
}

func NewDict(entries ...Entry) Value {
	if entries == nil {
		entries = []Entry{}
	}
	return Value{Kind: KindDict, Dict: entries}
}

// Get looks up key in a dict value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindDict {
		return Value{}, false
	}
	for _, e := range v.Dict {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// With returns a copy of the dict v with key set to val. Existing keys keep
// their position; new keys are appended.
func (v Value) With(key string, val Value) Value {
	if v.Kind != KindDict {
		return v
	}
	out := make([]Entry, 0, len(v.Dict)+1)
	replaced := false
	for _, e := range v.Dict {
		if e.Key == key {
			e.Value = val
			replaced = true
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, Entry{Key: key, Value: val})
	}
	return Value{Kind: KindDict, Dict: out}
}

// Equal reports whether a and b are the same tree, dict order included.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Int == b.Int
	case KindBytes:
		return bytes.Equal(a.Bytes, b.Bytes)
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.Dict) != len(b.Dict) {
			return false
		}
		for i := range a.Dict {
			if a.Dict[i].Key != b.Dict[i].Key || !Equal(a.Dict[i].Value, b.Dict[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String is the native readable form: quoted byte strings, bracketed lists
// and braced dicts. It never fails, whatever the byte content.
func (v Value) String() string {
	var sb strings.Builder
	v.writeNative(&sb)
	return sb.String()
}

func (v Value) writeNative(sb *strings.Builder) {
	switch v.Kind {
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindBytes:
		sb.WriteString(strconv.Quote(string(v.Bytes)))
	case KindList:
		sb.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeNative(sb)
		}
		sb.WriteByte(']')
	case KindDict:
		sb.WriteByte('{')
		for i, e := range v.Dict {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteString(": ")
			e.Value.writeNative(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("<invalid>")
	}
}
