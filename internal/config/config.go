package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/parsedump/internal/render"
)

var (
	ErrMissingTitle = errors.New("config: title is required")
	ErrMissingHosts = errors.New("config: hosts.local and hosts.remote need at least one name")
	ErrInvalidAddr  = errors.New("config: serve.addr must be host:port")
	ErrInvalidLimit = errors.New("config: serve.max_body_bytes must be positive")
)

type Config struct {
	Title           string      `toml:"title"`
	Decode          bool        `toml:"decode"`
	AnnotateHeaders bool        `toml:"annotate_headers"`
	Hosts           HostsConfig `toml:"hosts"`
	Serve           ServeConfig `toml:"serve"`
}

// HostsConfig names the machines on each side of the capture. Only the
// first four characters of a name are compared against tcpdump headers.
type HostsConfig struct {
	Local  []string `toml:"local"`
	Remote []string `toml:"remote"`
}

type ServeConfig struct {
	Addr         string   `toml:"addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

func Default() Config {
	return Config{
		Title:           render.DefaultTitle,
		Decode:          true,
		AnnotateHeaders: false,
		Hosts: HostsConfig{
			Local:  []string{"recharge"},
			Remote: []string{"raspberrypi"},
		},
		Serve: ServeConfig{
			Addr:         ":9200",
			CorsOrigins:  []string{"http://localhost:3000"},
			MaxBodyBytes: 32 << 20,
		},
	}
}

// Load reads path over Default. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("title") {
		cfg.Title = strings.TrimSpace(raw.Title)
	}
	if meta.IsDefined("decode") {
		cfg.Decode = raw.Decode
	}
	if meta.IsDefined("annotate_headers") {
		cfg.AnnotateHeaders = raw.AnnotateHeaders
	}
	if meta.IsDefined("hosts", "local") {
		cfg.Hosts.Local = normalizeNames(raw.Hosts.Local)
	}
	if meta.IsDefined("hosts", "remote") {
		cfg.Hosts.Remote = normalizeNames(raw.Hosts.Remote)
	}
	if meta.IsDefined("serve", "addr") {
		cfg.Serve.Addr = strings.TrimSpace(raw.Serve.Addr)
	}
	if meta.IsDefined("serve", "cors_origins") {
		cfg.Serve.CorsOrigins = normalizeNames(raw.Serve.CorsOrigins)
	}
	if meta.IsDefined("serve", "max_body_bytes") {
		cfg.Serve.MaxBodyBytes = raw.Serve.MaxBodyBytes
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrMissingTitle
	}
	if len(c.Hosts.Local) == 0 || len(c.Hosts.Remote) == 0 {
		return ErrMissingHosts
	}
	if _, err := c.HostMap(); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(c.Serve.Addr); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddr, c.Serve.Addr)
	}
	if c.Serve.MaxBodyBytes <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

// normalizeNames trims entries and drops empty ones.
func normalizeNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, name := range in {
		v := strings.TrimSpace(name)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
