package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL performs comprehensive URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ResolveURL resolves a possibly-relative href against a base URL and returns a string
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}

// PlaylistID extracts the id from a /playlist/<id> URL, including localized
// paths such as /intl-de/playlist/<id>. ok is false for other pages.
func PlaylistID(urlStr string) (id string, ok bool) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "playlist" && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}
