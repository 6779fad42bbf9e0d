// Package dumptext renders packet bytes the way `tcpdump -X` prints them, so
// tests can build capture input without fixture files.
package dumptext

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const bytesPerLine = 16

// Header returns a tcpdump summary line for a UDP datagram sent by host.
func Header(host string, length int) string {
	return fmt.Sprintf("21:03:17.514222 IP %s.3838 > peer.local.3838: UDP, length %d", host, length)
}

// HexLines returns the tab-prefixed hex/ascii lines for data.
func HexLines(data []byte) []string {
	lines := make([]string, 0, len(data)/bytesPerLine+1)
	for off := 0; off < len(data); off += bytesPerLine {
		end := off + bytesPerLine
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]
		groups := make([]string, 0, bytesPerLine/2)
		for i := 0; i < len(chunk); i += 2 {
			j := i + 2
			if j > len(chunk) {
				j = len(chunk)
			}
			groups = append(groups, hex.EncodeToString(chunk[i:j]))
		}
		hexPart := strings.Join(groups, " ")
		hexPart += strings.Repeat(" ", 39-len(hexPart))
		lines = append(lines, fmt.Sprintf("\t0x%04x:  %s  %s", off, hexPart, ascii(chunk)))
	}
	return lines
}

// Packet returns one header line followed by the hex lines of data.
func Packet(host string, data []byte) string {
	var sb strings.Builder
	sb.WriteString(Header(host, len(data)))
	sb.WriteByte('\n')
	for _, line := range HexLines(data) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Datagram prefixes payload with a 20-byte IPv4 header and an 8-byte UDP
// header addressed from 192.168.1.10:3838 to 192.168.1.20:3838.
func Datagram(payload []byte) []byte {
	total := 28 + len(payload)
	out := make([]byte, 0, total)
	out = append(out,
		0x45, 0x00, byte(total>>8), byte(total),
		0x12, 0x34, 0x40, 0x00,
		0x40, 0x11, 0x00, 0x00,
		192, 168, 1, 10,
		192, 168, 1, 20,
	)
	udpLen := 8 + len(payload)
	out = append(out,
		0x0e, 0xfe, 0x0e, 0xfe,
		byte(udpLen>>8), byte(udpLen),
		0x00, 0x00,
	)
	return append(out, payload...)
}

// UTP prefixes body with a 20-byte uTP header whose first two bytes are
// typeVer and extension.
func UTP(typeVer, extension byte, body []byte) []byte {
	out := make([]byte, 20, 20+len(body))
	out[0] = typeVer
	out[1] = extension
	for i := 2; i < 20; i++ {
		out[i] = byte(0xa0 + i)
	}
	return append(out, body...)
}

func ascii(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c <= 0x7e {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}
