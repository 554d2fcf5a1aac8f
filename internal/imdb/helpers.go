package imdb

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reTitleID  = regexp.MustCompile(`\btt\d{7,}\b`)
	reNameID   = regexp.MustCompile(`\bnm\d{7,}\b`)
	reYear     = regexp.MustCompile(`\b(18|19|20)\d{2}\b`)
	reISODur   = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)
	reHours    = regexp.MustCompile(`(?i)(\d+)\s*(?:h|hr|hrs|hour|hours)\b`)
	reMinutes  = regexp.MustCompile(`(?i)(\d+)\s*(?:m|min|mins|minute|minutes)\b`)
	reImageDim = regexp.MustCompile(`\._V1_[^/]*\.(jpe?g|png)$`)
)

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }

// firstText returns the normalized text of the first match.
func firstText(doc *goquery.Document, sel string) (string, bool) {
	s := doc.Find(sel).First()
	if s.Length() == 0 {
		return "", false
	}
	t := normSpace(s.Text())
	return t, t != ""
}

func firstAttr(doc *goquery.Document, sel, attr string) (string, bool) {
	v, ok := doc.Find(sel).First().Attr(attr)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// texts collects the non-empty texts of every match, in document order.
func texts(doc *goquery.Document, sel string) []string {
	var out []string
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		if t := normSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// ownText is the selection's text without its children's text.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return normSpace(b.String())
}

func parseYear(s string) (int, bool) {
	m := reYear.FindString(s)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	return y, err == nil
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

// parseRating accepts "8.3", "8,3" and "8.3/10".
func parseRating(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 || f > 10 {
		return 0, false
	}
	return f, true
}

// parseRuntime converts "PT2H50M", "2h 50m", "2 hours 50 minutes" or
// "170 min" into minutes.
func parseRuntime(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if m := reISODur.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return h*60 + mins, h*60+mins > 0
	}
	total := 0
	if m := reHours.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := reMinutes.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	return total, total > 0
}

// fullSizeImage drops the resize directives from a media URL so the
// original image is downloaded.
func fullSizeImage(u string) string {
	u = strings.TrimSpace(u)
	// placeholders: "nopicture" thumbnails and the sash sprite set
	if strings.Contains(u, "nopicture") || strings.Contains(u, "/images/S/sash/") || strings.HasPrefix(u, "data:") {
		return ""
	}
	return reImageDim.ReplaceAllString(u, "._V1_.$1")
}

func nameID(href string) string {
	return reNameID.FindString(href)
}

// dedupe keeps the first occurrence of each value.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
