package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "tx":
		return txTemplate, nil
	case "rx":
		return rxTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const txTemplate = `name = "txnode"
settings_path = "txnode.db"

[radio]
transport = "serial"
device = "/dev/ttyUSB0"
baud = 115200

[diag]
addr = ":9300"
cors_origins = ["http://localhost:3000"]
`

const rxTemplate = `name = "rxnode"
link_timeout_ms = 3000

[radio]
transport = "serial"
device = "/dev/ttyUSB1"
baud = 115200

[diag]
addr = ":9400"
cors_origins = ["http://localhost:3000"]
`
