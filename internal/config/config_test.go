package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/danmuck/parsedump/internal/capture"
	"github.com/danmuck/parsedump/internal/testutil/testlog"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parsedump.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestTemplateLoadsAsDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "parsedump.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("template differs from defaults:\n%+v\n%+v", cfg, Default())
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite existing config")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
}

func TestLoadOverridesOnlyDefinedKeys(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, `
decode = false

[hosts]
local = [" laptop ", ""]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Decode {
		t.Fatalf("decode override ignored")
	}
	if len(cfg.Hosts.Local) != 1 || cfg.Hosts.Local[0] != "laptop" {
		t.Fatalf("unexpected local hosts: %q", cfg.Hosts.Local)
	}
	if cfg.Hosts.Remote[0] != "raspberrypi" || cfg.Title != Default().Title || cfg.Serve.Addr != ":9200" {
		t.Fatalf("undefined keys lost their defaults: %+v", cfg)
	}

	hosts, err := cfg.HostMap()
	if err != nil {
		t.Fatalf("host map: %v", err)
	}
	if hosts.Lookup("lapt") != capture.Outbound || hosts.Lookup("rasp") != capture.Inbound {
		t.Fatalf("host map does not follow config")
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		body string
		want error
	}{
		{name: "empty title", body: `title = "  "`, want: ErrMissingTitle},
		{name: "no remote hosts", body: "[hosts]\nremote = []", want: ErrMissingHosts},
		{name: "conflicting hosts", body: "[hosts]\nlocal = [\"raspberry\"]\nremote = [\"rasp\"]", want: capture.ErrHostConflict},
		{name: "bad addr", body: "[serve]\naddr = \"9200\"", want: ErrInvalidAddr},
		{name: "zero body limit", body: "[serve]\nmax_body_bytes = 0", want: ErrInvalidLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.body))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := Load(writeFile(t, `colour = "red"`)); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	if _, err := Load(writeFile(t, `title = `)); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	testlog.Start(t)
	cfg := Default()
	cfg.Title = "lab capture"
	cfg.AnnotateHeaders = true
	cfg.Hosts.Local = []string{"recharge", "laptop"}

	out, err := Encode(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Load(writeFile(t, string(out)))
	if err != nil {
		t.Fatalf("load encoded config: %v\n%s", err, out)
	}
	if !reflect.DeepEqual(back, cfg) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, cfg)
	}
}

func TestDumpOptions(t *testing.T) {
	testlog.Start(t)
	opts, err := Default().DumpOptions(7)
	if err != nil {
		t.Fatalf("dump options: %v", err)
	}
	if opts.Limit != 7 || !opts.Decode || opts.Title != Default().Title || opts.Hosts.Len() != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
