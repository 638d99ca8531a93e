package content

import (
	"regexp"
	"strings"
	"unicode"
)

// Section delimiters of a generated document.
const (
	TitlesMarker = "<<SEO_TITLES>>"
	BodyMarker   = "<<BODY>>"
	EndMarker    = "<<END>>"
)

// TitleCount is the number of titles a document must carry.
const TitleCount = 3

var (
	titlePrefixRe = regexp.MustCompile(`^(?:[\s*\-•·>#]|\d+[.)])+`)
	titleQuoteRe  = regexp.MustCompile(`^['"“”‘’]+|['"“”‘’]+$`)
)

// between returns the text strictly between the first start marker and the
// first end marker following it, with the index range it occupies.
func between(doc, start, end string) (string, int, int, bool) {
	i := strings.Index(doc, start)
	if i < 0 {
		return "", 0, 0, false
	}

	from := i + len(start)
	j := strings.Index(doc[from:], end)
	if j < 0 {
		return "", 0, 0, false
	}

	return doc[from : from+j], from, from + j, true
}

// HasMarkers reports whether all three delimiters appear in order.
func HasMarkers(doc string) bool {
	_, _, titlesEnd, ok := between(doc, TitlesMarker, BodyMarker)
	if !ok {
		return false
	}

	return strings.Contains(doc[titlesEnd+len(BodyMarker):], EndMarker)
}

// ExtractTitles returns up to three cleaned title lines. Leading enumerators,
// bullets and quote marks are removed.
func ExtractTitles(doc string) []string {
	block, _, _, ok := between(doc, TitlesMarker, BodyMarker)
	if !ok {
		return nil
	}

	titles := make([]string, 0, TitleCount)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = titlePrefixRe.ReplaceAllString(line, "")
		line = strings.NewReplacer("**", "", "__", "").Replace(line)
		line = strings.TrimSpace(titleQuoteRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		titles = append(titles, line)
		if len(titles) == TitleCount {
			break
		}
	}

	return titles
}

// ExtractBody returns the trimmed text between the body and end markers, or
// "" when either marker is missing.
func ExtractBody(doc string) string {
	body, _, _, _ := between(doc, BodyMarker, EndMarker)

	return strings.TrimSpace(body)
}

// ReplaceBody swaps the body section for newBody, keeping the whitespace that
// surrounds it and everything outside the markers. A document without both
// markers is returned unchanged.
func ReplaceBody(doc, newBody string) string {
	inner, from, to, ok := between(doc, BodyMarker, EndMarker)
	if !ok {
		return doc
	}

	left := strings.TrimLeftFunc(inner, unicode.IsSpace)
	lead := len(inner) - len(left)
	trail := len(left) - len(strings.TrimRightFunc(left, unicode.IsSpace))

	return doc[:from+lead] + newBody + doc[to-trail:]
}

// CountOccurrences counts non-overlapping occurrences of the trimmed keyword,
// scanning left to right.
func CountOccurrences(text, keyword string) int {
	k := strings.TrimSpace(keyword)
	if k == "" {
		return 0
	}

	return strings.Count(text, k)
}
