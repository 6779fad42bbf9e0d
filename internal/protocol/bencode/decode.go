package bencode

import (
	"strconv"
)

// MaxDepth bounds list/dict nesting.
const MaxDepth = 256

// Decode reads one value from the start of data and returns it together
// with the number of bytes it occupied. Bytes after the value are left
// for the caller.
func Decode(data []byte) (Value, int, error) {
	d := decoder{data: data}
	v, err := d.value(0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, d.pos, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) fail(offset int, err error) error {
	return &DecodeError{Offset: offset, Err: err}
}

func (d *decoder) value(depth int) (Value, error) {
	if d.pos >= len(d.data) {
		return Value{}, d.fail(d.pos, ErrTruncated)
	}
	switch c := d.data[d.pos]; {
	case c == 'i':
		return d.integer()
	case c == 'l':
		return d.list(depth)
	case c == 'd':
		return d.dict(depth)
	case c >= '0' && c <= '9':
		b, err := d.bytes()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBytes, Bytes: b}, nil
	default:
		return Value{}, d.fail(d.pos, ErrUnexpectedByte)
	}
}

func (d *decoder) integer() (Value, error) {
	start := d.pos
	d.pos++
	end := d.indexFrom(d.pos, 'e')
	if end < 0 {
		return Value{}, d.fail(start, ErrTruncated)
	}
	digits := string(d.data[d.pos:end])
	if !isSignedDecimal(digits) {
		return Value{}, d.fail(start, ErrInvalidInteger)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Value{}, d.fail(start, ErrInvalidInteger)
	}
	d.pos = end + 1
	return NewInt(n), nil
}

func (d *decoder) bytes() ([]byte, error) {
	start := d.pos
	colon := d.indexFrom(d.pos, ':')
	if colon < 0 {
		return nil, d.fail(start, ErrTruncated)
	}
	digits := string(d.data[d.pos:colon])
	if !isDecimal(digits) {
		return nil, d.fail(start, ErrInvalidLength)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil, d.fail(start, ErrInvalidLength)
	}
	body := colon + 1
	if n > len(d.data)-body {
		return nil, d.fail(start, ErrTruncated)
	}
	out := make([]byte, n)
	copy(out, d.data[body:body+n])
	d.pos = body + n
	return out, nil
}

func (d *decoder) list(depth int) (Value, error) {
	start := d.pos
	if depth >= MaxDepth {
		return Value{}, d.fail(start, ErrTooDeep)
	}
	d.pos++
	items := make([]Value, 0)
	for {
		if d.pos >= len(d.data) {
			return Value{}, d.fail(start, ErrTruncated)
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return Value{Kind: KindList, List: items}, nil
		}
		item, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
}

func (d *decoder) dict(depth int) (Value, error) {
	start := d.pos
	if depth >= MaxDepth {
		return Value{}, d.fail(start, ErrTooDeep)
	}
	d.pos++
	entries := make([]Entry, 0)
	seen := make(map[string]struct{})
	for {
		if d.pos >= len(d.data) {
			return Value{}, d.fail(start, ErrTruncated)
		}
		c := d.data[d.pos]
		if c == 'e' {
			d.pos++
			return Value{Kind: KindDict, Dict: entries}, nil
		}
		if c < '0' || c > '9' {
			return Value{}, d.fail(d.pos, ErrInvalidKey)
		}
		keyAt := d.pos
		key, err := d.bytes()
		if err != nil {
			return Value{}, err
		}
		if _, dup := seen[string(key)]; dup {
			return Value{}, d.fail(keyAt, ErrDuplicateKey)
		}
		seen[string(key)] = struct{}{}
		val, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: string(key), Value: val})
	}
}

func (d *decoder) indexFrom(from int, b byte) int {
	for i := from; i < len(d.data); i++ {
		if d.data[i] == b {
			return i
		}
	}
	return -1
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isSignedDecimal(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	return isDecimal(s)
}
