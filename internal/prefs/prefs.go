// Package prefs reads and writes the visitor's language and theme. The values
// live in two plain-string cookies, "lang" and "theme".
package prefs

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eleanorewu/folio/internal/i18n"
)

// Theme is the page colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Cookie names.
const (
	LangCookie      = "lang"
	ThemeCookie     = "theme"
	PreloaderCookie = "seen_preloader"
)

const cookieMaxAge = 365 * 24 * 3600

const contextKey = "prefs"

// ParseTheme returns the theme named by s, or fallback.
func ParseTheme(s string, fallback Theme) Theme {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s)
	}
	return fallback
}

// Toggle switches between light and dark.
func Toggle(t Theme) Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Preference is the per-request view of the visitor's settings.
type Preference struct {
	Lang  i18n.Language
	Theme Theme
}

// IsDark reports whether the dark theme is active.
func (p Preference) IsDark() bool { return p.Theme == Dark }

// Resolve builds a Preference from the request. Saved cookies win. Without
// them the language is negotiated from Accept-Language and the theme comes
// from the prefers-color-scheme client hint.
func Resolve(r *http.Request, defaultLang i18n.Language) Preference {
	p := Preference{
		Lang:  i18n.Negotiate(r.Header.Get("Accept-Language"), defaultLang),
		Theme: ParseTheme(strings.Trim(r.Header.Get("Sec-CH-Prefers-Color-Scheme"), `"`), Light),
	}
	if c, err := r.Cookie(LangCookie); err == nil {
		p.Lang = i18n.Parse(c.Value, p.Lang)
	}
	if c, err := r.Cookie(ThemeCookie); err == nil {
		p.Theme = ParseTheme(c.Value, p.Theme)
	}
	return p
}

// Middleware resolves the preference once per request and stores it on the
// gin context. It also asks browsers for the colour-scheme client hint.
func Middleware(defaultLang i18n.Language) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
		c.Header("Vary", "Cookie, Accept-Language, Sec-CH-Prefers-Color-Scheme")
		c.Set(contextKey, Resolve(c.Request, defaultLang))
		c.Next()
	}
}

// From returns the preference stored by Middleware. Handlers mounted without
// the middleware get the defaults.
func From(c *gin.Context) Preference {
	if v, ok := c.Get(contextKey); ok {
		if p, ok := v.(Preference); ok {
			return p
		}
	}
	return Preference{Lang: i18n.Default, Theme: Light}
}

// SaveTheme persists the theme cookie.
func SaveTheme(c *gin.Context, t Theme) {
	setCookie(c, ThemeCookie, string(t), cookieMaxAge)
}

// SaveLang persists the language cookie.
func SaveLang(c *gin.Context, l i18n.Language) {
	setCookie(c, LangCookie, string(l), cookieMaxAge)
}

// TakePreloader reports whether the preloader should be shown and marks it
// as seen for the rest of the browser session.
func TakePreloader(c *gin.Context) bool {
	if _, err := c.Cookie(PreloaderCookie); err == nil {
		return false
	}
	setCookie(c, PreloaderCookie, "true", 0)
	return true
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", false, false)
}
