package capture

import (
	"fmt"
	"strings"
)

// HostPrefixLen is how many characters of a host name identify it.
const HostPrefixLen = 4

type Direction uint8

const (
	Unknown Direction = iota
	Outbound
	Inbound
)

func (d Direction) String() string {
	switch d {
	case Outbound:
		return "outbound"
	case Inbound:
		return "inbound"
	default:
		return "unknown"
	}
}

// HostMap maps host-name prefixes to the direction of packets they send.
type HostMap struct {
	prefixes map[string]Direction
}

// NewHostMap builds a map from local (outbound) and remote (inbound) host
// names. Names are cut to HostPrefixLen characters.
func NewHostMap(local, remote []string) (HostMap, error) {
	m := HostMap{prefixes: make(map[string]Direction, len(local)+len(remote))}
	if err := m.add(local, Outbound); err != nil {
		return HostMap{}, err
	}
	if err := m.add(remote, Inbound); err != nil {
		return HostMap{}, err
	}
	return m, nil
}

func (m HostMap) add(hosts []string, dir Direction) error {
	for _, host := range hosts {
		key := hostPrefix(strings.TrimSpace(host))
		if key == "" {
			return ErrEmptyHost
		}
		if prev, ok := m.prefixes[key]; ok && prev != dir {
			return fmt.Errorf("%w: %q", ErrHostConflict, key)
		}
		m.prefixes[key] = dir
	}
	return nil
}

// Lookup returns the direction for a host identifier, Unknown if no prefix
// matches.
func (m HostMap) Lookup(host string) Direction {
	if m.prefixes == nil {
		return Unknown
	}
	return m.prefixes[hostPrefix(host)]
}

// Len reports the number of distinct prefixes.
func (m HostMap) Len() int {
	return len(m.prefixes)
}

func hostPrefix(host string) string {
	if len(host) > HostPrefixLen {
		return host[:HostPrefixLen]
	}
	return host
}
