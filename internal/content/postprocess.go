package content

import (
	"regexp"
	"strings"
)

var (
	headingRe     = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	quoteMarkRe   = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	bannedTermsRe = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(AI|자동\s?생성|챗봇|chat\s?bot|auto-generated)([^\p{L}\p{N}]|$)`)
	centerInfoRe  = regexp.MustCompile(`(?i)\[\s*(센터\s*정보|center\s*info)\s*\]`)
	slotTokensRe  = regexp.MustCompile(`\(\s*(본문|내용)\s*\)`)
	hspaceRe      = regexp.MustCompile(`[ \t]{2,}`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

var emphasisReplacer = strings.NewReplacer("**", "", "__", "", "`", "")

// Clean post-processes raw model output: markdown markers and banned
// meta-words are removed, leaked placeholders are resolved to the center
// name, and whitespace is collapsed.
func Clean(raw, centerName string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")

	s = headingRe.ReplaceAllString(s, "")
	s = quoteMarkRe.ReplaceAllString(s, "")
	s = emphasisReplacer.Replace(s)

	s = removeBannedTerms(s)

	s = centerInfoRe.ReplaceAllLiteralString(s, centerName)
	if name := strings.TrimSpace(centerName); name != "" {
		s = strings.NewReplacer(
			"'"+name+"'", name,
			"("+name+")", name,
			"‘"+name+"’", name,
		).Replace(s)
	}
	s = slotTokensRe.ReplaceAllString(s, "")

	return collapseWhitespace(s)
}

// removeBannedTerms applies the pattern until it stops matching, since
// adjacent terms share the separator consumed by the previous match.
func removeBannedTerms(s string) string {
	for {
		next := bannedTermsRe.ReplaceAllString(s, "$1$3")
		if next == s {
			return s
		}
		s = next
	}
}

func collapseWhitespace(s string) string {
	s = hspaceRe.ReplaceAllString(s, " ")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
