package content

import (
	"fmt"
	"strings"
)

// PromptInput carries everything the rewrite prompt is assembled from.
type PromptInput struct {
	Mode Mode

	CenterName string
	Telephone  string
	Address    string
	RegionHint string

	Keyword string

	SourceTitle string
	SourceBody  string
	// SourceCap limits the embedded source body when positive.
	SourceCap int

	MinChars   int
	KeywordMin int
	KeywordMax int
}

func voiceBlock(in PromptInput) string {
	if in.Mode == ModeRecruitment {
		return fmt.Sprintf(`[화자: %s 센터장]
- 구직 중인 요양보호사 선생님들에게 깊이 있는 정보를 제공합니다.
- 단순 공지가 아니라, 우리 센터의 장점을 구체적으로 설명합니다.`, in.CenterName)
	}

	return fmt.Sprintf(`[화자: %s 센터장]
- 보호자에게 단순 위로를 넘어 '전문적인 해결책'을 제시합니다.
- 글의 호흡을 길게 가져가며, 상세하고 친절하게 설명하는 말투를 씁니다.`, in.CenterName)
}

// sourceRules applies to both modes and follows the mode rules.
func sourceRules(in PromptInput) string {
	return fmt.Sprintf(`[원본 활용 규칙]
- 원본의 말투와 문단 구조를 그대로 베끼지 말고, 내용만 참고해 새로 쓰세요.
- 원본에 나오는 다른 기관·센터 이름은 '저희 센터', '전문 기관'처럼 일반적인 표현으로 바꾸세요.
- 센터명은 %s, 전화번호는 %s, 주소는 %s만 정확히 그대로 사용하세요. 다른 연락처나 주소를 지어내지 마세요.`,
		in.CenterName, in.Telephone, in.Address)
}

func rewriteRules(in PromptInput) string {
	return modeRules(in) + "\n\n" + sourceRules(in)
}

func modeRules(in PromptInput) string {
	if in.Mode == ModeRecruitment {
		return fmt.Sprintf(`[리라이팅 규칙 - 채용/구인 모드 (상세하게 작성할 것)]
1) 분량: 최소 %d자 이상 작성하세요. 내용을 풍성하게 늘리세요.
2) 구성: 소제목 3개~4개를 반드시 포함하세요.
3) 내용 심화:
   - 단순한 "구인합니다"가 아니라, 왜 우리 센터가 좋은지 구체적인 예시(교육 시스템, 복지, 분위기 등)를 들어 문단을 길게 서술하세요.
   - "선생님이 존중받는 곳"이라는 점을 강조하며 감정적인 호소력을 더하세요.
4) 금지: 짧고 딱딱한 공지사항 스타일 금지. 에세이처럼 술술 읽히게 쓰세요.`, in.MinChars)
	}

	return fmt.Sprintf(`[리라이팅 규칙 - 보호자 상담 모드 (상세하게 작성할 것)]
1) 분량: 최소 %d자 이상 작성하세요. 내용을 풍성하게 늘리세요.
2) 구성: 소제목 3개~4개를 반드시 포함하세요.
3) 내용 심화:
   - 원본 내용을 단순히 요약하지 말고, 살을 붙여서 확장하세요.
   - 예를 들어 '케어'라고만 하지 말고, '식사 보조부터 말벗, 병원 동행, 인지 활동 프로그램'처럼 구체적인 서비스 항목을 나열하며 자세히 설명하세요.
   - 보호자의 걱정을 하나하나 짚어주며 안심시키세요.`, in.MinChars)
}

func seoRules(in PromptInput) string {
	return fmt.Sprintf(`[SEO 필수 규칙 (어길 시 0점 처리)]
1) SEO 제목: 출력하는 3개의 제목 모두에 목표 키워드 '%[1]s'를 토씨 하나 틀리지 않고 그대로 포함하세요.
2) 제목 금지 사항: 제목 앞에 번호(1.), 글머리 기호(*, -), 특수문자를 절대 붙이지 마세요. 순수 텍스트만 출력하세요.
3) 본문 키워드: 본문 내용 중에 목표 키워드 '%[1]s'가 정확히 %[2]d회~%[3]d회 등장해야 합니다.
4) 소제목: 소제목 중 2개 이상에 %[4]s 또는 %[5]s를 포함하세요.
5) 금지 표현: AI, 자동생성, 챗봇 같은 표현과 [센터 정보], (본문) 같은 자리표시자를 그대로 쓰지 마세요.`,
		in.Keyword, in.KeywordMin, in.KeywordMax, in.CenterName, in.RegionHint)
}

const formatRules = `[출력 형식]
` + TitlesMarker + `
(제목 3개)
` + BodyMarker + `
(도입부: 3~4문장의 충분한 길이로 작성, 번호 붙이지 말 것)

1. {소제목 1}
(본문: 최소 4~5문장 이상 길게 작성)

2. {소제목 2}
(본문: 최소 4~5문장 이상 길게 작성)

3. {소제목 3}
(본문: 최소 4~5문장 이상 길게 작성)

4. {소제목 4 (선택)}
(본문)

` + EndMarker

// BuildPrompt assembles the rewrite prompt: persona, mode rules, SEO rules,
// output format, center facts, target keyword and the source article.
func BuildPrompt(in PromptInput) string {
	source := in.SourceBody
	if in.SourceCap > 0 {
		source = TrimForModel(source, in.SourceCap)
	}

	sections := []string{
		voiceBlock(in),
		rewriteRules(in),
		seoRules(in),
		formatRules,
		fmt.Sprintf("[센터 정보]\n- 센터명: %s\n- 전화: %s\n- 주소: %s\n- 지역: %s",
			in.CenterName, in.Telephone, in.Address, in.RegionHint),
		fmt.Sprintf("[목표 키워드]\n- %s (반드시 포함할 것!)", in.Keyword),
		fmt.Sprintf("[원본 원고]\n제목: %s\n%s", in.SourceTitle, source),
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

// failureHints maps a failed check to the instruction repeated to the model.
var failureHints = map[string]string{
	CheckMarkers:     "출력 형식의 구분자(" + TitlesMarker + ", " + BodyMarker + ", " + EndMarker + ")를 빠짐없이 순서대로 쓰세요.",
	CheckTitles:      "제목 3개 모두에 목표 키워드를 그대로 넣으세요.",
	CheckKeyword:     "본문의 목표 키워드 횟수를 규칙에 맞추세요.",
	CheckTelephone:   "본문에 상담 전화번호를 반드시 쓰세요.",
	CheckCenterName:  "본문에 센터명을 반드시 쓰세요.",
	CheckNumberedTop: "도입부를 번호(1.)로 시작하지 마세요.",
	CheckLength:      "본문이 너무 짧습니다. 문단을 더 길게 쓰세요.",
}

// CorrectiveSuffix is appended to the prompt on retries. It restates the
// constraints models break most often, then the checks the previous attempt
// failed.
func CorrectiveSuffix(keyword string, minChars int, failed []string) string {
	var b strings.Builder

	b.WriteString("\n\n[수정 요청]")
	b.WriteString(" 1. 제목 앞에 별표(*)나 번호(1.) 같은 기호를 절대 붙이지 마세요.")
	fmt.Fprintf(&b, " 2. 글이 너무 짧습니다. 문단을 더 구체적으로 길게 늘려 쓰세요. (최소 %d자)", minChars)
	b.WriteString(" 3. 소제목은 반드시 3개 또는 4개가 있어야 합니다.")
	fmt.Fprintf(&b, " 4. 키워드 '%s'를 제목과 본문에 규칙대로 넣으세요.", keyword)
	b.WriteString(" 5. 전화번호를 본문에 반드시 쓰고, [센터 정보] 같은 자리표시자는 쓰지 마세요.")

	for _, name := range failed {
		if hint, ok := failureHints[name]; ok {
			b.WriteString("\n- ")
			b.WriteString(hint)
		}
	}

	return b.String()
}
