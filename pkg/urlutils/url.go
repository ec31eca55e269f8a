// Package urlutils provides small URL helpers shared across packages.
package urlutils

import (
	"fmt"
	"net/url"
)

// IsValidURL reports whether urlStr parses as an absolute URL with a host.
func IsValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Host extracts the host component of an absolute URL.
func Host(urlStr string) (string, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL has no host: %s", urlStr)
	}
	return u.Host, nil
}

// ResolveURL resolves relativeURL against baseURL. Absolute URLs pass
// through unchanged.
func ResolveURL(baseURL, relativeURL string) (string, error) {
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return "", err
	}
	if rel.IsAbs() {
		return relativeURL, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(rel).String(), nil
}
