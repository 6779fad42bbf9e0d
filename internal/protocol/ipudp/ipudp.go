// Package ipudp handles the IPv4+UDP span in front of every captured
// datagram.
package ipudp

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// HeaderLen is the fixed IPv4 (no options) plus UDP header span.
const HeaderLen = 28

// Strip drops the IPv4+UDP span. Shorter input yields an empty payload.
func Strip(data []byte) []byte {
	if len(data) <= HeaderLen {
		return data[len(data):]
	}
	return data[HeaderLen:]
}

// Summary is the addressing decoded from the header span.
type Summary struct {
	SrcIP   string
	DstIP   string
	SrcPort uint16
	DstPort uint16
	Length  uint16
}

func (s Summary) String() string {
	return fmt.Sprintf("%s:%d > %s:%d len=%d", s.SrcIP, s.SrcPort, s.DstIP, s.DstPort, s.Length)
}

// Summarize decodes the IPv4 and UDP layers of data. It reports false when
// either layer is missing or malformed; the fixed-offset Strip does not
// depend on it.
func Summarize(data []byte) (Summary, bool) {
	pkt := gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	ip4Layer := pkt.Layer(layers.LayerTypeIPv4)
	if ip4Layer == nil {
		return Summary{}, false
	}
	udpLayer := pkt.Layer(layers.LayerTypeUDP)
	if udpLayer == nil {
		return Summary{}, false
	}
	ip4 := ip4Layer.(*layers.IPv4)
	udp := udpLayer.(*layers.UDP)
	return Summary{
		SrcIP:   ip4.SrcIP.String(),
		DstIP:   ip4.DstIP.String(),
		SrcPort: uint16(udp.SrcPort),
		DstPort: uint16(udp.DstPort),
		Length:  udp.Length,
	}, true
}
