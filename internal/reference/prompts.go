package reference

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alkime/carepost/internal/content"
)

var (
	outlineRe = regexp.MustCompile(`\[OUTLINE\]([\s\S]*?)\[REFERENCE_FACTS\]`)
	factsRe   = regexp.MustCompile(`\[REFERENCE_FACTS\]([\s\S]*)$`)
)

func orNone(s, none string) string {
	if s == "" {
		return none
	}

	return s
}

// ExtractionPrompt asks the backend for an outline and number-free facts
// distilled from the references.
func ExtractionPrompt(service, topicName, keyword1, keyword2 string, refs []Scored, refCap int) string {
	blocks := make([]string, 0, len(refs))
	for i, r := range refs {
		blocks = append(blocks, fmt.Sprintf("#%d %s\n%s", i+1, r.Article.Title, content.TrimForModel(r.Article.Body, refCap)))
	}

	return strings.TrimSpace(fmt.Sprintf(`너는 표절 방지 편집자다.

규칙:
- 문장/서술 방식 차용 금지
- 숫자/금액/비율 절대 추출 금지
- 정보/개념/절차/주의사항만 추출

출력 형식:

[OUTLINE]
- 소제목은 정확히 4개만 제안한다.
- 각 소제목은 글의 큰 흐름을 대표한다.
- 소제목 아래에는 포함해야 할 핵심 포인트를 불릿으로 정리한다.
- 번호형(1~4) 기준으로 생각한다.

[REFERENCE_FACTS]
- 숫자를 제외한 정보성 팩트만 불릿으로 정리

입력:
서비스: %s
주제: %s
타깃 키워드1: %s
타깃 키워드2: %s

[REFERENCES]
%s`, service, topicName, keyword1, orNone(keyword2, "(없음)"), strings.Join(blocks, "\n\n")))
}

// ParseExtraction splits an extraction response into outline and facts.
// Missing sections come back empty.
func ParseExtraction(text string) (outline, facts string) {
	if m := outlineRe.FindStringSubmatch(text); m != nil {
		outline = strings.TrimSpace(m[1])
	}
	if m := factsRe.FindStringSubmatch(text); m != nil {
		facts = strings.TrimSpace(m[1])
	}

	return outline, facts
}

// FinalInput carries everything FinalPrompt embeds.
type FinalInput struct {
	CenterName string
	Service    string
	TopicName  string
	Keyword1   string
	Keyword2   string
	Telephone  string
	Outline    string
	Facts      string
	FactTables string
}

// FinalPrompt assembles the reference-driven generation prompt.
func FinalPrompt(in FinalInput) string {
	kw2 := orNone(in.Keyword2, "없음")

	return strings.TrimSpace(fmt.Sprintf(`[중요 제약]
- 이 글은 "%[1]s" 서비스에 대한 정보성 글이다.
- 제목/본문/소제목에는
  1) "%[1]s"
  2) 타깃 키워드1 또는 타깃 키워드2에 포함된 서비스명
  만 등장할 수 있다.
- 사용자가 입력하지 않은 다른 서비스는 절대 언급하지 않는다.
- "[SSOT_DATA]"라는 문자열이나 이를 연상시키는 표현을 절대 사용하지 않는다.
- SSOT를 직접 언급하거나 회피하는 문장은 사용하지 않는다.

[센터 규칙]
- 센터 정보는 제공된 정보만 사용한다.
- 주소/전화번호/기관 규모를 추정하거나 생성하지 않는다.

[서식 규칙]
- 마크다운 강조(**) 사용 금지
- ####, ### 사용 금지
- 소제목은 번호형 4개만 사용한다.

[구조 규칙]
- 본문은 반드시 인트로 문단으로 시작한다.
- 인트로는 소제목보다 앞에 위치하며 3~4문장으로 작성한다.
- 인트로에서는 "%[2]s"의 중요성과 "%[1]s" 서비스가 필요한 상황을 설명한다.
- 인트로에는 번호형 소제목을 사용하지 않는다.

- 인트로 이후에만 아래 소제목 구조를 사용한다:
  1. 소제목
  2. 소제목
  3. 소제목
  4. 소제목

- 각 소제목 아래에는 2~3문단으로 충분히 설명한다.

- 본문 마지막에는 반드시 마무리 문단을 작성한다.
- 마무리 문단에는 다음 요소를 모두 포함한다:
  * 타깃 키워드1 (%[3]s)
  * 타깃 키워드2 (%[4]s)
  * 주제 (%[2]s)
  * 서비스명 (%[1]s)
- 과장되거나 기관 규모를 암시하는 표현은 사용하지 않는다.

[숫자 규칙]
- 숫자/금액/비율은 반드시 [SSOT_DATA]에서만 사용한다.
- SSOT에 없는 숫자는 아예 서술하지 않는다.

입력:
센터명: %[5]s

[OUTLINE]
%[6]s

[REFERENCE_FACTS]
%[7]s

[SSOT_DATA]
%[8]s

출력:
1) SEO 제목 3개
2) 인트로 + 본문 (번호형 소제목 4개)
3) 마무리 문단
4) 마지막 CTA에 "%[9]s" 포함`,
		in.Service, in.TopicName, in.Keyword1, kw2, in.CenterName,
		in.Outline, in.Facts, in.FactTables, in.Telephone))
}

// LegacyPrompt wraps a free-form request with the fixed house rules.
func LegacyPrompt(prompt, telephone string) string {
	return fmt.Sprintf("한국어로 작성.\n500자 이내.\n과장/의료판단 금지.\n마지막 문단에 %s 포함.\n\n요청: %s",
		telephone, strings.TrimSpace(prompt))
}
