package bencode

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"unicode/utf8"
)

// ErrNotText is returned by JSON when a byte string or key cannot be shown
// as text without altering it.
var ErrNotText = errors.New("bencode: byte string is not valid utf-8")

// JSON renders v as indented JSON, keeping dict order. Byte strings must be
// valid UTF-8; JSON never substitutes replacement characters.
func JSON(v Value, indent string) ([]byte, error) {
	compact, err := appendJSON(nil, v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func appendJSON(buf []byte, v Value) ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return strconv.AppendInt(buf, v.Int, 10), nil
	case KindBytes:
		return appendJSONString(buf, v.Bytes)
	case KindList:
		buf = append(buf, '[')
		for i, item := range v.List {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendJSON(buf, item); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindDict:
		buf = append(buf, '{')
		for i, e := range v.Dict {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendJSONString(buf, []byte(e.Key)); err != nil {
				return nil, err
			}
			buf = append(buf, ':')
			if buf, err = appendJSON(buf, e.Value); err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	default:
		return nil, ErrUnexpectedByte
	}
}

func appendJSONString(buf, b []byte) ([]byte, error) {
	if !utf8.Valid(b) {
		return nil, ErrNotText
	}
	var quoted bytes.Buffer
	enc := json.NewEncoder(&quoted)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(string(b)); err != nil {
		return nil, err
	}
	return append(buf, bytes.TrimSuffix(quoted.Bytes(), []byte{'\n'})...), nil
}
