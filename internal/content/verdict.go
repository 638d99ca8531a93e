package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Check names reported by Verdict.Failures.
const (
	CheckMarkers     = "markers"
	CheckTitles      = "titles_keyword"
	CheckKeyword     = "body_keyword_count"
	CheckTelephone   = "telephone"
	CheckCenterName  = "center_name"
	CheckNumberedTop = "numbered_intro"
	CheckLength      = "body_length"
)

var numberedIntroRe = regexp.MustCompile(`^\d+[.)]`)

// Criteria parameterizes Evaluate.
type Criteria struct {
	Keyword      string
	CenterName   string
	Telephone    string
	KeywordMin   int
	KeywordMax   int
	MinBodyChars int
}

// Verdict is the outcome of validating one generated document. Each field
// holds the result of one check.
type Verdict struct {
	Markers     bool `json:"markers"`
	Titles      bool `json:"titles"`
	KeywordOK   bool `json:"keywordOk"`
	Telephone   bool `json:"telephone"`
	CenterName  bool `json:"centerName"`
	PlainIntro  bool `json:"plainIntro"`
	LongEnough  bool `json:"longEnough"`
	KeywordHits int  `json:"keywordHits"`
	BodyChars   int  `json:"bodyChars"`
}

// Evaluate runs every check against doc. It never fails; a document without
// markers simply fails the checks that depend on them.
func Evaluate(doc string, c Criteria) Verdict {
	body := ExtractBody(doc)
	titles := ExtractTitles(doc)
	keyword := strings.TrimSpace(c.Keyword)

	titlesOK := len(titles) == TitleCount
	for _, t := range titles {
		if keyword == "" || !strings.Contains(t, keyword) {
			titlesOK = false
		}
	}

	hits := CountOccurrences(body, keyword)
	chars := utf8.RuneCountInString(body)

	return Verdict{
		Markers:     HasMarkers(doc),
		Titles:      titlesOK,
		KeywordOK:   hits >= c.KeywordMin && hits <= c.KeywordMax,
		Telephone:   c.Telephone != "" && strings.Contains(body, c.Telephone),
		CenterName:  c.CenterName != "" && strings.Contains(body, c.CenterName),
		PlainIntro:  body != "" && !numberedIntroRe.MatchString(body),
		LongEnough:  chars >= c.MinBodyChars,
		KeywordHits: hits,
		BodyChars:   chars,
	}
}

// OK reports whether every check passed.
func (v Verdict) OK() bool {
	return len(v.Failures()) == 0
}

// Failures lists the names of failed checks in a stable order.
func (v Verdict) Failures() []string {
	checks := []struct {
		name   string
		passed bool
	}{
		{CheckMarkers, v.Markers},
		{CheckTitles, v.Titles},
		{CheckKeyword, v.KeywordOK},
		{CheckTelephone, v.Telephone},
		{CheckCenterName, v.CenterName},
		{CheckNumberedTop, v.PlainIntro},
		{CheckLength, v.LongEnough},
	}

	var failed []string
	for _, c := range checks {
		if !c.passed {
			failed = append(failed, c.name)
		}
	}

	return failed
}
