// Package slug turns free text into lowercase, hyphen separated identifiers
// that are safe as URL segments and file names.
package slug

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackAttachment names attachments whose base name slugs to nothing.
const FallbackAttachment = "attachment"

// Make returns the slug of s. Accents are folded to their base letter,
// characters outside [a-z0-9] are dropped, and runs of whitespace or
// hyphens collapse into a single hyphen. Scripts without a Latin
// decomposition produce an empty slug.
func Make(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		}
	}
	return b.String()
}

// Filename sanitizes an uploaded file name: the base name is slugged, the
// extension is lowercased and stripped of anything but [a-z0-9]. Directory
// components are discarded, so the result never escapes its target folder.
// Filename(Filename(x)) == Filename(x).
func Filename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	ext := filepath.Ext(name)
	base := Make(strings.TrimSuffix(name, ext))
	if base == "" {
		base = FallbackAttachment
	}

	ext = cleanExt(ext)
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func cleanExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	var b strings.Builder
	for _, r := range ext {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
