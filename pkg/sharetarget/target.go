// Package sharetarget defines the closed set of share destinations and the
// registry of per-platform presentation metadata (labels, brand colors).
package sharetarget

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sharesheet/sharesheet/configs"
)

// Target identifies a share destination. The set is closed: every Target
// maps 1:1 to a URL builder and at most one availability rule.
type Target string

// All known share targets.
const (
	Native    Target = "native"
	Copy      Target = "copy"
	Download  Target = "download"
	WhatsApp  Target = "whatsapp"
	Telegram  Target = "telegram"
	X         Target = "x"
	Facebook  Target = "facebook"
	Instagram Target = "instagram"
	Snapchat  Target = "snapchat"
	SMS       Target = "sms"
	Email     Target = "email"
	LinkedIn  Target = "linkedin"
	Reddit    Target = "reddit"
	TikTok    Target = "tiktok"
	Threads   Target = "threads"
)

// Colors holds the brand colors for a platform button.
type Colors struct {
	Bg   string `yaml:"bg"`
	Text string `yaml:"text"`
}

// Platform describes one share target's presentation metadata.
type Platform struct {
	ID     Target `yaml:"id"`
	Label  string `yaml:"label"`
	Scheme bool   `yaml:"scheme"` // app-scheme URI target (same-document navigation)
	Colors Colors `yaml:"colors"`
}

type registryFile struct {
	Platforms []Platform `yaml:"platforms"`
}

var (
	loadOnce sync.Once
	ordered  []Platform
	byID     map[Target]Platform
	loadErr  error
)

func load() {
	raw, err := configs.EmbeddedConfigs.ReadFile("platforms.yaml")
	if err != nil {
		loadErr = fmt.Errorf("failed to read platform registry: %w", err)
		return
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		loadErr = fmt.Errorf("failed to parse platform registry: %w", err)
		return
	}

	ordered = file.Platforms
	byID = make(map[Target]Platform, len(file.Platforms))
	for _, p := range file.Platforms {
		byID[p.ID] = p
	}
}

// Get returns the platform metadata for a target. The second return value
// reports whether the target is known.
func Get(id Target) (Platform, bool) {
	loadOnce.Do(load)
	p, ok := byID[id]
	return p, ok
}

// All returns every registered platform in registry order.
func All() []Platform {
	loadOnce.Do(load)
	out := make([]Platform, len(ordered))
	copy(out, ordered)
	return out
}

// IDs returns every registered target id in registry order.
func IDs() []Target {
	loadOnce.Do(load)
	ids := make([]Target, 0, len(ordered))
	for _, p := range ordered {
		ids = append(ids, p.ID)
	}
	return ids
}

// Label returns the display label for a target, or the raw id when unknown.
func Label(id Target) string {
	if p, ok := Get(id); ok {
		return p.Label
	}
	return string(id)
}

// BrandColors returns the brand colors for a target.
func BrandColors(id Target) (Colors, bool) {
	p, ok := Get(id)
	return p.Colors, ok
}

// Valid reports whether id names a known share target.
func Valid(id Target) bool {
	_, ok := Get(id)
	return ok
}

// RegistryError returns the error from parsing the embedded registry, if any.
// A non-nil error means the binary was built with a broken data file.
func RegistryError() error {
	loadOnce.Do(load)
	return loadErr
}
