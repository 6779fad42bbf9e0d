// Package capture frames `tcpdump -X` text into packets.
//
// A header line opens a packet and names the sending host; the tab-prefixed
// hex lines that follow carry its bytes. Direction is inferred from the first
// characters of the sending host through an injected HostMap.
package capture
