package types

// Locale is a closed enumeration of the UI locales the engine serves.
type Locale string

const (
	LocaleEN   Locale = "en"
	LocaleZhTW Locale = "zh-TW"
	LocaleJA   Locale = "ja"
)

// BaseLocale is the locale of the primary index. Cross-locale semantic
// fallback and reverse dictionary expansion target this locale.
const BaseLocale = LocaleEN

// SupportedLocales lists every locale the engine accepts.
var SupportedLocales = []Locale{LocaleEN, LocaleZhTW, LocaleJA}

// Valid reports whether l is a supported locale.
func (l Locale) Valid() bool {
	for _, s := range SupportedLocales {
		if l == s {
			return true
		}
	}
	return false
}

// IsBase reports whether l is the base index locale.
func (l Locale) IsBase() bool { return l == BaseLocale }

// ParseLocale maps a request string to a supported locale. Unknown or
// empty values normalize to the base locale rather than erroring.
func ParseLocale(s string) Locale {
	l := Locale(s)
	if l.Valid() {
		return l
	}
	return BaseLocale
}
