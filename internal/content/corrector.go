package content

import (
	"fmt"
	"strings"
)

// CorrectorInput parameterizes EnsureKeywordCount.
type CorrectorInput struct {
	Keyword   string
	Telephone string
	Mode      Mode
	Min       int
	Max       int
}

// closings holds the boilerplate appended to an under-keyworded body. The
// heavy variant carries the keyword twice, the light variant once; both
// carry the telephone.
type closings struct {
	heavy string
	light string
}

func closingsFor(mode Mode, k, tel string) closings {
	if mode == ModeRecruitment {
		return closings{
			heavy: fmt.Sprintf("%[1]s 관련하여 궁금한 점이 있으신가요? 저희는 선생님들의 열정을 응원하며, %[1]s로서 자부심을 가지고 일하실 수 있도록 최선을 다합니다. %[2]s로 편하게 연락주세요.", k, tel),
			light: fmt.Sprintf("%s 지원을 희망하시거나 근무 조건이 궁금하시다면 %s로 편하게 연락주세요. 좋은 인연을 기다립니다.", k, tel),
		}
	}

	return closings{
		heavy: fmt.Sprintf("%[1]s에 대해 더 궁금하신 점이 있으시다면 언제든 문의주세요. 보호자님의 상황에 딱 맞는 %[1]s 서비스를 안내해 드리겠습니다. 상담 전화는 %[2]s입니다.", k, tel),
		light: fmt.Sprintf("%s 관련하여 구체적인 상담이 필요하시다면 %s로 편하게 전화 주셔요. 친절하게 안내해 드리겠습니다.", k, tel),
	}
}

// EnsureKeywordCount repairs the keyword frequency of a document's body
// without another model call. A body with no keyword gets the heavy closing,
// one still below the minimum gets the light closing, and occurrences above the
// maximum are removed starting from the end. A body still missing the
// telephone gets the light closing. Everything outside the body is kept.
// Applying it to its own output changes nothing.
func EnsureKeywordCount(doc string, in CorrectorInput) string {
	k := strings.TrimSpace(in.Keyword)
	if k == "" {
		return doc
	}

	body := ExtractBody(doc)
	if body == "" {
		return doc
	}

	c := closingsFor(in.Mode, k, in.Telephone)
	appended := false

	if CountOccurrences(body, k) == 0 {
		body += "\n\n" + c.heavy
		appended = true
	}
	for CountOccurrences(body, k) < in.Min {
		body += "\n\n" + c.light
		appended = true
	}
	body = reduceKeywordToMax(body, k, in.Max)

	if !appended && !strings.Contains(body, in.Telephone) {
		body = reduceKeywordToMax(body+"\n\n"+c.light, k, in.Max)
	}

	return ReplaceBody(doc, strings.TrimSpace(body))
}

// reduceKeywordToMax deletes occurrences of k closest to the end until at
// most max remain. The body is returned untouched when nothing is removed.
func reduceKeywordToMax(body, k string, max int) string {
	if max < 0 || CountOccurrences(body, k) <= max {
		return body
	}

	for CountOccurrences(body, k) > max {
		i := strings.LastIndex(body, k)
		body = body[:i] + body[i+len(k):]
	}

	return collapseWhitespace(body)
}
