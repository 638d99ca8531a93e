package content

import (
	"regexp"
	"strings"
)

var (
	runSpaceRe     = regexp.MustCompile(`[ \t]+`)
	sentenceEndRe  = regexp.MustCompile(`([다요죠까])([.?!])\s*`)
	numberedItemRe = regexp.MustCompile(`\n*(\d\.)\s*`)
	manyNewlinesRe = regexp.MustCompile(`\n{4,}`)
	titleIndexRe   = regexp.MustCompile(`^\d+[.)]\s*`)
)

// FormatForReadability breaks a body into short paragraphs for display:
// each sentence ending in a polite verb ending gets its own paragraph and
// numbered subheadings start on a fresh one.
func FormatForReadability(body string) string {
	s := strings.ReplaceAll(body, "\r\n", "\n")
	s = strings.TrimSpace(runSpaceRe.ReplaceAllString(s, " "))
	s = sentenceEndRe.ReplaceAllString(s, "$1$2\n\n")
	s = numberedItemRe.ReplaceAllString(s, "\n\n$1 ")
	s = manyNewlinesRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// SplitTitles returns up to three display titles from a title block.
func SplitTitles(block string) []string {
	titles := make([]string, 0, TitleCount)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(titleIndexRe.ReplaceAllString(strings.TrimSpace(line), ""))
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

// TrimForModel tightens line endings and caps s at max runes.
func TrimForModel(s string, max int) string {
	s = strings.TrimSpace(trailingSpaceRe.ReplaceAllString(s, "\n"))
	r := []rune(s)
	if max > 0 && len(r) > max {
		return string(r[:max])
	}

	return s
}

var trailingSpaceRe = regexp.MustCompile(`\s+\n`)
