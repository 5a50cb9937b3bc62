// Package locale normalizes free-text locale and class identifiers to the
// canonical codes used by the bundled reference datasets.
package locale

import (
	"regexp"
	"strings"
)

// Locale is a canonical dataset locale code.
type Locale string

// Supported locales. English is always the fallback source of truth.
const (
	English Locale = "en"
	Spanish Locale = "es"
)

// Default is the locale used when a request carries no usable locale.
const Default = English

var localeAliases = map[string]Locale{
	"en":      English,
	"eng":     English,
	"english": English,
	"ingles":  English,
	"inglés":  English,
	"es":      Spanish,
	"spa":     Spanish,
	"spanish": Spanish,
	"espanol": Spanish,
	"español": Spanish,
	"castellano": Spanish,
}

// Normalize maps a free-text locale string to a canonical Locale.
// It accepts ISO codes, BCP 47 tags ("es-MX"), and language names in
// English or Spanish. Anything unrecognized falls back to English.
func Normalize(s string) Locale {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Default
	}

	if l, ok := localeAliases[key]; ok {
		return l
	}

	// BCP 47 tags: only the primary subtag matters for our datasets.
	if base, _, found := strings.Cut(key, "-"); found {
		if l, ok := localeAliases[base]; ok {
			return l
		}
	}
	if base, _, found := strings.Cut(key, "_"); found {
		if l, ok := localeAliases[base]; ok {
			return l
		}
	}

	return Default
}

// Supported reports whether l is a locale we ship datasets for.
func Supported(l Locale) bool {
	return l == English || l == Spanish
}

var classAliases = map[string]string{
	"barbarian":   "barbarian",
	"barbaro":     "barbarian",
	"bárbaro":     "barbarian",
	"bard":        "bard",
	"bardo":       "bard",
	"cleric":      "cleric",
	"clerigo":     "cleric",
	"clérigo":     "cleric",
	"druid":       "druid",
	"druida":      "druid",
	"fighter":     "fighter",
	"guerrero":    "fighter",
	"monk":        "monk",
	"monje":       "monk",
	"paladin":     "paladin",
	"paladín":     "paladin",
	"ranger":      "ranger",
	"explorador":  "ranger",
	"rogue":       "rogue",
	"picaro":      "rogue",
	"pícaro":      "rogue",
	"sorcerer":    "sorcerer",
	"hechicero":   "sorcerer",
	"warlock":     "warlock",
	"brujo":       "warlock",
	"wizard":      "wizard",
	"mago":        "wizard",
}

var slugPattern = regexp.MustCompile(`[^a-z0-9-]+`)

// NormalizeClassID maps a free-text class name or index to the canonical
// SRD class index. Display names in English and Spanish are recognized;
// anything else is slugified so lookups fail cleanly downstream instead
// of panicking on odd input.
func NormalizeClassID(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := classAliases[key]; ok {
		return canonical
	}

	slug := strings.ReplaceAll(key, " ", "-")
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
