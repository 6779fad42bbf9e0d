package bencode

import (
	"strconv"
)

// Encode writes v in bencode form. Dict entries are written in the order
// they are held, so a decoded value re-encodes to its original bytes.
func Encode(v Value) []byte {
	return appendValue(nil, v)
}

func appendValue(buf []byte, v Value) []byte {
	switch v.Kind {
	case KindInt:
		buf = append(buf, 'i')
		buf = strconv.AppendInt(buf, v.Int, 10)
		return append(buf, 'e')
	case KindBytes:
		return appendBytes(buf, v.Bytes)
	case KindList:
		buf = append(buf, 'l')
		for _, item := range v.List {
			buf = appendValue(buf, item)
		}
		return append(buf, 'e')
	case KindDict:
		buf = append(buf, 'd')
		for _, e := range v.Dict {
			buf = appendBytes(buf, []byte(e.Key))
			buf = appendValue(buf, e.Value)
		}
		return append(buf, 'e')
	default:
		return buf
	}
}

func appendBytes(buf, b []byte) []byte {
	buf = strconv.AppendInt(buf, int64(len(b)), 10)
	buf = append(buf, ':')
	return append(buf, b...)
}
