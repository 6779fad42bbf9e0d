package config

import (
	"fmt"

	"github.com/danmuck/parsedump/internal/capture"
	"github.com/danmuck/parsedump/internal/dump"
	"github.com/pelletier/go-toml/v2"
)

// HostMap builds the direction lookup for the configured hosts.
func (c Config) HostMap() (capture.HostMap, error) {
	hosts, err := capture.NewHostMap(c.Hosts.Local, c.Hosts.Remote)
	if err != nil {
		return capture.HostMap{}, fmt.Errorf("config: hosts: %w", err)
	}
	return hosts, nil
}

// DumpOptions converts the config into pipeline options with the given
// packet limit.
func (c Config) DumpOptions(limit int) (dump.Options, error) {
	hosts, err := c.HostMap()
	if err != nil {
		return dump.Options{}, err
	}
	return dump.Options{
		Hosts:           hosts,
		Limit:           limit,
		Decode:          c.Decode,
		AnnotateHeaders: c.AnnotateHeaders,
		Title:           c.Title,
	}, nil
}

// Encode renders c as TOML, e.g. to show the effective settings after
// flags were applied.
func Encode(c Config) ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config encode failed: %w", err)
	}
	return out, nil
}
