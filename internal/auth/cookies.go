// internal/auth/cookies.go
package auth

import (
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
)

// CookieParams converts the session's cookies for network.SetCookies
func (s *SessionData) CookieParams() []*network.CookieParam {
	if s == nil {
		return nil
	}

	cookies := make([]*network.CookieParam, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		cookie := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			cookie.Expires = &expires
		}
		switch c.SameSite {
		case "Strict":
			cookie.SameSite = network.CookieSameSiteStrict
		case "Lax":
			cookie.SameSite = network.CookieSameSiteLax
		case "None":
			cookie.SameSite = network.CookieSameSiteNone
		}
		cookies = append(cookies, cookie)
	}
	return cookies
}

// fromNetworkCookies converts cookies read from the browser
func fromNetworkCookies(cookies []*network.Cookie) []Cookie {
	out := make([]Cookie, len(cookies))
	for i, c := range cookies {
		out[i] = Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		}
	}
	return out
}

// latestExpiry returns the furthest cookie expiry, or the zero time when
// every cookie is a session cookie
func latestExpiry(cookies []Cookie) time.Time {
	max := 0.0
	for _, c := range cookies {
		if c.Expires > max {
			max = c.Expires
		}
	}
	if max <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(max), 0)
}
