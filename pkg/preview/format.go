// Package preview provides an interactive share target preview using a Bubble Tea TUI.
package preview

import (
	"fmt"
	"strings"

	"github.com/sharesheet/sharesheet/pkg/opengraph"
	"github.com/sharesheet/sharesheet/pkg/sharetarget"
)

// Item is one share target prepared for preview: the platform, the URL the
// orchestrator would dispatch, and its availability on the current device.
type Item struct {
	Platform  sharetarget.Platform
	ShareURL  string
	Available bool
	Reason    string
}

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := len(word)

		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// FormatCompactListItem formats a single share target in compact list format.
// Example: " 1. [✓] WhatsApp        app scheme"
func FormatCompactListItem(index int, item Item) string {
	mark := "✓"
	if !item.Available {
		mark = "✗"
	}

	kind := "web intent"
	if item.Platform.Scheme {
		kind = "app scheme"
	}

	return fmt.Sprintf("%2d. [%s] %-15s %s", index+1, mark, item.Platform.Label, kind)
}

// FormatDetailedItem formats a single share target with its dispatch details.
func FormatDetailedItem(item Item) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")
	b.WriteString(fmt.Sprintf("Platform: %s (%s)\n", item.Platform.Label, item.Platform.ID))

	if item.Platform.Scheme {
		b.WriteString("Dispatch: app scheme (same-document navigation)\n")
	} else {
		b.WriteString("Dispatch: web intent (new tab)\n")
	}

	if item.ShareURL != "" {
		b.WriteString(fmt.Sprintf("URL: %s\n", wrapText(item.ShareURL, 70)))
	}

	if item.Available {
		b.WriteString("Available: yes\n")
	} else {
		b.WriteString(fmt.Sprintf("Available: no (%s)\n", item.Reason))
	}

	b.WriteString(fmt.Sprintf("Colors: background %s, text %s\n",
		item.Platform.Colors.Bg, item.Platform.Colors.Text))

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")

	return b.String()
}

// FormatMetadata formats fetched Open Graph metadata for the preview pane.
// A nil result renders the same fallback card the share widget would show.
func FormatMetadata(shareURL string, data *opengraph.Data) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Link: %s\n\n", shareURL))

	if data == nil {
		b.WriteString("No metadata available, the link preview falls back to the bare URL.\n")
		return b.String()
	}

	if data.Title != "" {
		b.WriteString(fmt.Sprintf("Title: %s\n", data.Title))
	}
	if data.SiteName != "" {
		b.WriteString(fmt.Sprintf("Site: %s\n", data.SiteName))
	}
	if data.Image != "" {
		b.WriteString(fmt.Sprintf("Image: %s\n", data.Image))
	}
	if data.URL != "" && data.URL != shareURL {
		b.WriteString(fmt.Sprintf("Canonical: %s\n", data.URL))
	}
	if data.Description != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", wrapText(data.Description, 70)))
	}

	return b.String()
}
