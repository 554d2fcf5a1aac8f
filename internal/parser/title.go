package parser

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reBrackets = regexp.MustCompile(`\[.*?\]`)
	reParens   = regexp.MustCompile(`\((?:[^)]*)\)`)
	// release tokens from file names: 1080p, BluRay, x264 ...
	reRelease = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|480p|4k|uhd|hdr|bluray|blu-ray|brrip|bdrip|web-?dl|webrip|hdtv|dvdrip|remux|x26[45]|h\.?26[45]|hevc|aac|dts|ac3|proper|repack|extended|unrated)\b.*$`)
	reYear    = regexp.MustCompile(`(?:^|\s)((?:19|20)\d{2})\s*$`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// CleanTitle turns a catalog title or file-derived name into a search-friendly
// query. A trailing year is dropped only from file names; in a plain title it
// belongs to the name ("Blade Runner 2049").
func CleanTitle(raw string) string {
	s := raw
	fileName := false

	// 1. 文件名里的分隔符
	if !strings.Contains(s, " ") && strings.ContainsAny(s, "._") {
		s = strings.NewReplacer(".", " ", "_", " ").Replace(s)
		fileName = true
	}

	// 2. Remove all [...] and (...) content
	s = reBrackets.ReplaceAllString(s, " ")
	s = reParens.ReplaceAllString(s, " ")

	// 3. Cut release tokens and everything after them
	if cut := reRelease.ReplaceAllString(s, ""); cut != s {
		s = cut
		fileName = true
	}

	// 4. Cleanup
	s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
	s = strings.Trim(s, "-. ")

	// 5. Trailing year ("Heat.1995.1080p")
	if fileName {
		if m := reYear.FindStringSubmatchIndex(s); m != nil && m[0] > 0 {
			s = strings.TrimSpace(s[:m[0]])
		}
	}

	if s == "" {
		return strings.TrimSpace(raw) // Fallback if we stripped everything
	}
	return s
}

// NormalizeName folds a person name for matching: accents removed, lower
// case, single spaces, punctuation dropped.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FoldName is the case-insensitive key of a reference name ("États-Unis" and
// "ÉTATS-UNIS" fold alike).
func FoldName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}
