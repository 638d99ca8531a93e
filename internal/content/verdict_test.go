package content_test

import (
	"strings"
	"testing"

	"github.com/alkime/carepost/internal/content"
	"github.com/stretchr/testify/assert"
)

var criteria = content.Criteria{
	Keyword:      "가족요양",
	CenterName:   "행복요양센터",
	Telephone:    "1522-6585",
	KeywordMin:   2,
	KeywordMax:   3,
	MinBodyChars: 600,
}

func document(titles, body string) string {
	return "<<SEO_TITLES>>\n" + titles + "\n<<BODY>>\n" + body + "\n<<END>>"
}

const goodTitles = "가족요양 제목 하나\n가족요양 제목 둘\n가족요양 제목 셋"

func goodBody() string {
	return "행복요양센터 소개입니다. 가족요양 안내. 가족요양 문의 1522-6585.\n" + strings.Repeat("가", 600)
}

func TestEvaluate_Accepts(t *testing.T) {
	v := content.Evaluate(document(goodTitles, goodBody()), criteria)

	assert.True(t, v.OK(), "failures: %v", v.Failures())
	assert.Equal(t, 2, v.KeywordHits)
	assert.Greater(t, v.BodyChars, 600)
}

func TestEvaluate_Failures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "title without keyword",
			doc:  document("가족요양 제목 하나\n다른 제목\n가족요양 제목 셋", goodBody()),
			want: content.CheckTitles,
		},
		{
			name: "only two titles",
			doc:  document("가족요양 제목 하나\n가족요양 제목 둘", goodBody()),
			want: content.CheckTitles,
		},
		{
			name: "keyword too often",
			doc:  document(goodTitles, goodBody()+" 가족요양 가족요양"),
			want: content.CheckKeyword,
		},
		{
			name: "no telephone",
			doc:  document(goodTitles, strings.ReplaceAll(goodBody(), "1522-6585", "")),
			want: content.CheckTelephone,
		},
		{
			name: "no center name",
			doc:  document(goodTitles, strings.ReplaceAll(goodBody(), "행복요양센터", "센터")),
			want: content.CheckCenterName,
		},
		{
			name: "numbered intro",
			doc:  document(goodTitles, "1. "+goodBody()),
			want: content.CheckNumberedTop,
		},
		{
			name: "too short",
			doc:  document(goodTitles, "행복요양센터 가족요양 가족요양 1522-6585"),
			want: content.CheckLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := content.Evaluate(tt.doc, criteria)

			assert.False(t, v.OK())
			assert.Equal(t, []string{tt.want}, v.Failures())
		})
	}
}

func TestEvaluate_MissingMarkers(t *testing.T) {
	v := content.Evaluate("그냥 텍스트 가족요양 가족요양 행복요양센터 1522-6585", criteria)

	assert.False(t, v.OK())
	assert.Contains(t, v.Failures(), content.CheckMarkers)
	assert.Contains(t, v.Failures(), content.CheckTitles)
	assert.Contains(t, v.Failures(), content.CheckLength)
}
