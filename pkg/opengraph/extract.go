package opengraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	httputil "github.com/sharesheet/sharesheet/pkg/http"
	"github.com/sharesheet/sharesheet/pkg/urlutils"
)

const maxBodySize = 1024 * 1024 // cap on fetched page size

// fetchPage fetches the target page directly and extracts its Open Graph
// metadata. Used when no unfurl endpoint is configured.
func (f *Fetcher) fetchPage(ctx context.Context, targetURL string) (*Data, error) {
	if !urlutils.IsValidURL(targetURL) {
		return nil, fmt.Errorf("invalid URL format: %s", targetURL)
	}

	if err := f.waitForDomain(ctx, targetURL); err != nil {
		return nil, err
	}

	slog.Debug("Fetching page for OpenGraph extraction", "url", targetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.DoRequest(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.EnsureStatusOK(resp); err != nil {
		return nil, err
	}

	contentType := httputil.GetContentType(resp)
	lowered := strings.ToLower(contentType)
	if !strings.Contains(lowered, "text/html") && !strings.Contains(lowered, "application/xhtml") {
		return nil, fmt.Errorf("not an HTML page: %s", contentType)
	}

	// Convert to UTF-8 before parsing; pages still ship legacy encodings.
	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}

	doc, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	data := &Data{URL: targetURL}
	extractTags(doc, data)
	applyFallbacks(doc, data)
	cleanupData(data)

	slog.Debug("Extracted OpenGraph data", "url", targetURL, "title", data.Title, "hasDescription", data.Description != "")
	return data, nil
}

// extractTags walks the document collecting og: meta tags, twitter fallbacks
// and the <title> element.
func extractTags(n *html.Node, data *Data) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "meta":
			processMetaTag(n, data)
		case "title":
			if data.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				data.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractTags(c, data)
	}
}

func processMetaTag(n *html.Node, data *Data) {
	var property, content, name string

	for _, attr := range n.Attr {
		switch attr.Key {
		case "property":
			property = attr.Val
		case "content":
			content = attr.Val
		case "name":
			name = attr.Val
		}
	}

	switch property {
	case "og:title":
		if data.Title == "" {
			data.Title = content
		}
	case "og:description":
		if data.Description == "" {
			data.Description = content
		}
	case "og:image":
		if data.Image == "" {
			data.Image = content
		}
	case "og:site_name":
		if data.SiteName == "" {
			data.SiteName = content
		}
	}

	// Twitter card tags rank below og: tags but above plain fallbacks.
	if data.Description == "" && (name == "description" || name == "twitter:description") {
		data.Description = content
	}
	if data.Image == "" && name == "twitter:image" {
		data.Image = content
	}
	if data.Title == "" && name == "twitter:title" {
		data.Title = content
	}
}

// applyFallbacks fills gaps left by missing meta tags: first paragraph for
// the description, host name for the site name. Relative image URLs are
// resolved against the page URL.
func applyFallbacks(doc *html.Node, data *Data) {
	if data.Description == "" {
		data.Description = firstParagraph(doc)
	}

	if data.SiteName == "" && data.URL != "" {
		if u, err := url.Parse(data.URL); err == nil {
			data.SiteName = u.Host
		}
	}

	if data.Image != "" {
		if resolved, err := urlutils.ResolveURL(data.URL, data.Image); err == nil {
			data.Image = resolved
		}
	}
}

// firstParagraph returns the first <p> with enough text to serve as a
// description.
func firstParagraph(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "p" {
		var text strings.Builder
		var collect func(*html.Node)
		collect = func(node *html.Node) {
			if node.Type == html.TextNode {
				text.WriteString(node.Data)
			}
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				collect(c)
			}
		}
		collect(n)

		result := strings.TrimSpace(text.String())
		if len(result) > 20 {
			return result
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := firstParagraph(c); result != "" {
			return result
		}
	}
	return ""
}

// cleanupData trims, truncates and validates extracted fields.
func cleanupData(data *Data) {
	data.Title = strings.TrimSpace(data.Title)
	data.Description = strings.TrimSpace(data.Description)
	data.SiteName = strings.TrimSpace(data.SiteName)

	if len(data.Description) > 500 {
		data.Description = data.Description[:497] + "..."
	}
	if len(data.Title) > 200 {
		data.Title = data.Title[:197] + "..."
	}

	if data.Image != "" && !urlutils.IsValidURL(data.Image) {
		slog.Warn("Invalid image URL found, clearing", "url", data.Image)
		data.Image = ""
	}

	data.Title = strings.ReplaceAll(data.Title, "\x00", "")
	data.Description = strings.ReplaceAll(data.Description, "\x00", "")
	data.SiteName = strings.ReplaceAll(data.SiteName, "\x00", "")
}
