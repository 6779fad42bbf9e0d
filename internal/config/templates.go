package config

import (
	"fmt"
	"os"
)

// Template returns a commented config file holding the defaults.
func Template() string {
	return parsedumpTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	if err := os.WriteFile(path, []byte(Template()), 0o600); err != nil {
		return fmt.Errorf("config write failed (%s): %w", path, err)
	}
	return nil
}

const parsedumpTemplate = `# Page title of the generated document.
title = "Btsync packet capture"

# Decode bencoded BSYNC messages inside data packets.
decode = true

# Add the decoded IP/UDP addressing as a tooltip on every packet line.
annotate_headers = false

# Host names as they appear after " IP " in tcpdump headers. Only the first
# four characters are compared.
[hosts]
local = ["recharge"]
remote = ["raspberrypi"]

# dumpserve settings.
[serve]
addr = ":9200"
cors_origins = ["http://localhost:3000"]
max_body_bytes = 33554432
`
