package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "contourctl":
		return contourctlTemplate, nil
	case "document":
		return documentTemplate, nil
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

const contourctlTemplate = `[log]
level = "info"

[limits]
max_contours = 4096
max_points = 1048576
max_name_bytes = 4096

[policy]
name_encoding = "raw"
require_finite = false

[frame]
max_payload_bytes = 16777216

[metrics]
textfile = ""

[render]
title = "seabee3_msgs/ContourArray"
width_inches = 8.0
height_inches = 8.0
`

const documentTemplate = `type = "seabee3_msgs/ContourArray"

[[contours]]
name = "buoy.red"
points = [[10.0, 20.0], [30.0, 40.0], [10.0, 20.0]]

[[contours]]
name = "gate"
points = []
`
