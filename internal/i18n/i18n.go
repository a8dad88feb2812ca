// Package i18n holds the two site languages and the localized string types
// used by the catalog and the page templates.
package i18n

import (
	"golang.org/x/text/language"
)

// Language is a site language code.
type Language string

const (
	Chinese Language = "zh"
	English Language = "en"
)

// Default is the language used when neither a cookie nor the request headers
// say otherwise.
const Default = Chinese

// Supported tags in matcher order. Both Chinese scripts map to Chinese.
var supported = []language.Tag{
	language.TraditionalChinese,
	language.SimplifiedChinese,
	language.English,
}

var matcher = language.NewMatcher(supported)

// Parse validates a language code, returning fallback for anything unknown.
func Parse(s string, fallback Language) Language {
	switch Language(s) {
	case Chinese, English:
		return Language(s)
	}
	return fallback
}

// Negotiate picks a site language from an Accept-Language header value.
// It returns fallback when the header is empty, malformed, or matches
// neither language with reasonable confidence.
func Negotiate(acceptLanguage string, fallback Language) Language {
	if acceptLanguage == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	if supported[idx] == language.English {
		return English
	}
	return Chinese
}

// Other returns the language a toggle switches to.
func (l Language) Other() Language {
	if l == English {
		return Chinese
	}
	return English
}

// Tag returns the BCP 47 tag used for the html lang attribute.
func (l Language) Tag() string {
	if l == Chinese {
		return "zh-Hant"
	}
	return "en"
}

// Text is a string with one translation per language.
type Text map[Language]string

// T resolves the text for lang, falling back to English and then to "".
func (t Text) T(lang Language) string {
	if t == nil {
		return ""
	}
	if s := t[lang]; s != "" {
		return s
	}
	return t[English]
}

// Lines is a list of strings with one translation per language.
type Lines map[Language][]string

// T resolves the lines for lang, falling back to English.
func (l Lines) T(lang Language) []string {
	if l == nil {
		return nil
	}
	if s := l[lang]; len(s) > 0 {
		return s
	}
	return l[English]
}
