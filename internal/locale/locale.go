// Package locale renders user-facing strings in a recipient's language.
// Every broadcast is rendered per recipient, never in the acting user's
// locale.
package locale

import "fmt"

// Locale identifies a supported language.
type Locale string

const (
	English   Locale = "en"
	Ukrainian Locale = "uk"

	// Default is the fallback for unknown or empty locales.
	Default = English
)

// Supported lists the locales offered in the language menu.
func Supported() []Locale {
	return []Locale{English, Ukrainian}
}

// Parse normalizes a stored locale string.
func Parse(s string) Locale {
	switch Locale(s) {
	case English, Ukrainian:
		return Locale(s)
	default:
		return Default
	}
}

// Text returns the catalog entry for key, falling back to English and then
// to the key itself.
func (l Locale) Text(key string) string {
	if c, ok := catalogs[l]; ok {
		if s, ok := c[key]; ok {
			return s
		}
	}
	if s, ok := catalogs[Default][key]; ok {
		return s
	}
	return key
}

// Textf formats the catalog entry for key with fmt.Sprintf.
func (l Locale) Textf(key string, args ...any) string {
	return fmt.Sprintf(l.Text(key), args...)
}

// SecretWord localizes a secret word key from the game service. Unknown keys
// are shown verbatim so a service-side addition degrades gracefully.
func (l Locale) SecretWord(key string) string {
	if w, ok := secretWords[l][key]; ok {
		return w
	}
	if w, ok := secretWords[Default][key]; ok {
		return w
	}
	return key
}

// Name returns the locale's self-description for the language menu.
func (l Locale) Name() string {
	switch l {
	case Ukrainian:
		return "Українська"
	default:
		return "English"
	}
}
