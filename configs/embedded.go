// Package configs provides embedded data files for sharesheet.
package configs

import "embed"

// EmbeddedConfigs exposes embedded data files for read-only access.
//
//go:embed *.yaml
var EmbeddedConfigs embed.FS
