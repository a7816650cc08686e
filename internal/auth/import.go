// internal/auth/import.go
package auth

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ParseJSONCookies reads a JSON array of cookies, as exported by most
// browser cookie extensions
func ParseJSONCookies(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie
	if err := json.NewDecoder(r).Decode(&cookies); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return cookies, nil
}

// ParseNetscapeCookies reads a Netscape/curl cookies.txt file
func ParseNetscapeCookies(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		httpOnly := false
		if rest, ok := strings.CutPrefix(line, "#HttpOnly_"); ok {
			line = rest
			httpOnly = true
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			fields = strings.Fields(line)
		}
		if len(fields) < 7 {
			continue
		}

		cookie := Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HTTPOnly: httpOnly,
		}
		if expiry, err := strconv.ParseInt(fields[4], 10, 64); err == nil && expiry > 0 {
			cookie.Expires = float64(expiry)
		}
		cookies = append(cookies, cookie)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cookies, nil
}

// CookieDomain derives the cookie domain for a site URL, e.g.
// https://open.spotify.com/playlist/x gives .spotify.com
func CookieDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	labels := strings.Split(u.Hostname(), ".")
	if len(labels) > 2 {
		labels = labels[len(labels)-2:]
	}
	return "." + strings.Join(labels, ".")
}

// NewImportedSession builds a session from imported cookies. It expires with
// its earliest expiring cookie.
func NewImportedSession(name, siteURL string, cookies []Cookie) (*SessionData, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("no cookies imported")
	}

	session := &SessionData{
		Name:      name,
		URL:       siteURL,
		Cookies:   cookies,
		CreatedAt: time.Now(),
	}

	for _, c := range cookies {
		if c.Expires <= 0 {
			continue
		}
		expiry := time.Unix(int64(c.Expires), 0)
		if session.ExpiresAt.IsZero() || expiry.Before(session.ExpiresAt) {
			session.ExpiresAt = expiry
		}
	}
	return session, nil
}
