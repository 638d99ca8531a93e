package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureStore() *sheets.MemoryStore {
	posts := sheets.Table{{"id", "title", "pcUrl", "mobileUrl", "date", "contentText"}}
	for i := 1; i <= 5; i++ {
		title := fmt.Sprintf("방문요양 이야기 %d", i)
		if i%2 == 0 {
			title = fmt.Sprintf("주간보호 안내 %d", i)
		}
		posts = append(posts, []string{
			fmt.Sprint(i), title, fmt.Sprintf("https://blog.example.com/%d", i), "", "", fmt.Sprintf("본문 %d", i),
		})
	}
	posts = append(posts, []string{"6", "", "https://blog.example.com/6"})

	return sheets.NewMemoryStore(map[string]sheets.Table{
		"센터정보": {
			{catalog.HeaderCenterID, catalog.HeaderCenterName, catalog.HeaderCenterTel, catalog.HeaderCenterAddress},
			{"center_1", "행복요양센터", "02-123-4567", "서울특별시 강남구 테헤란로 1"},
			{"center_2", "사랑케어"},
			{"center_3", ""},
		},
		"posts_full": posts,
		"주제": {
			{"topic_id", "service", "topic_tag", "display_name", "keywords"},
			{"t1", "주간보호", "daycare_cost", "주간보호 비용", "비용, 본인부담금 ,"},
			{"t2", "방문요양", "visit_intro", "방문요양 소개", "방문요양"},
			{"t3", "주간보호", "", "태그 없음", ""},
		},
	})
}

func TestRegionHint(t *testing.T) {
	assert.Equal(t, "서울특별시 강남구", catalog.RegionHint("서울특별시 강남구 테헤란로 1"))
	assert.Equal(t, "부산", catalog.RegionHint("  부산  "))
	assert.Equal(t, "", catalog.RegionHint(""))
}

func TestListCenters(t *testing.T) {
	cat := catalog.New(fixtureStore(), "1522-6585")

	centers, err := cat.ListCenters(context.Background())

	require.NoError(t, err)
	require.Len(t, centers, 2)
	assert.Equal(t, "center_1", centers[0].ID)
	assert.Equal(t, "", centers[1].Telephone, "listing keeps stored telephone")
}

func TestFindCenter(t *testing.T) {
	cat := catalog.New(fixtureStore(), "1522-6585")
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		c, err := cat.FindCenter(ctx, " center_1 ")
		require.NoError(t, err)
		assert.Equal(t, "행복요양센터", c.Name)
		assert.Equal(t, "02-123-4567", c.Telephone)
		assert.Equal(t, "서울특별시 강남구", c.RegionHint())
	})

	t.Run("ragged row degrades to defaults", func(t *testing.T) {
		c, err := cat.FindCenter(ctx, "center_2")
		require.NoError(t, err)
		assert.Equal(t, "1522-6585", c.Telephone)
		assert.Equal(t, "", c.Address)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := cat.FindCenter(ctx, "center_9")
		assert.ErrorIs(t, err, catalog.ErrCenterNotFound)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Contains(t, err.Error(), "center_9")
	})
}

func TestFindCenter_MissingHeader(t *testing.T) {
	store := sheets.NewMemoryStore(map[string]sheets.Table{
		"센터정보": {{"id", "name"}, {"center_1", "x"}},
	})
	cat := catalog.New(store, "")

	_, err := cat.FindCenter(context.Background(), "center_1")
	assert.ErrorIs(t, err, catalog.ErrMissingHeader)

	_, err = cat.ListCenters(context.Background())
	assert.ErrorIs(t, err, catalog.ErrMissingHeader)
}

func TestFindCenter_OptionalHeadersAbsent(t *testing.T) {
	store := sheets.NewMemoryStore(map[string]sheets.Table{
		"센터정보": {{catalog.HeaderCenterID, catalog.HeaderCenterName}, {"center_1", "하나"}},
	})
	cat := catalog.New(store, "1522-6585")

	c, err := cat.FindCenter(context.Background(), "center_1")

	require.NoError(t, err)
	assert.Equal(t, "1522-6585", c.Telephone)
	assert.Equal(t, "", c.Address)
}

func TestListSourceArticles(t *testing.T) {
	cat := catalog.New(fixtureStore(), "")
	ctx := context.Background()

	t.Run("newest first with limit", func(t *testing.T) {
		items, err := cat.ListSourceArticles(ctx, 3, "")
		require.NoError(t, err)
		require.Len(t, items, 2, "row without title is dropped")
		assert.Equal(t, "https://blog.example.com/5", items[0].URL)
		assert.Equal(t, "https://blog.example.com/4", items[1].URL)
	})

	t.Run("service filter", func(t *testing.T) {
		items, err := cat.ListSourceArticles(ctx, 0, "주간보호")
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, it := range items {
			assert.Contains(t, it.Title, "주간보호")
		}
	})
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, catalog.DefaultPostLimit, catalog.ClampLimit(0))
	assert.Equal(t, catalog.MaxPostLimit, catalog.ClampLimit(10_000))
	assert.Equal(t, 42, catalog.ClampLimit(42))
}

func TestFindSourceArticle(t *testing.T) {
	cat := catalog.New(fixtureStore(), "")

	a, err := cat.FindSourceArticle(context.Background(), "https://blog.example.com/3")
	require.NoError(t, err)
	assert.Equal(t, "방문요양 이야기 3", a.Title)
	assert.Equal(t, "본문 3", a.Body)

	_, err = cat.FindSourceArticle(context.Background(), "https://blog.example.com/99")
	assert.ErrorIs(t, err, catalog.ErrSourceNotFound)
	assert.Contains(t, err.Error(), "https://blog.example.com/99")
}

func TestListTopics(t *testing.T) {
	cat := catalog.New(fixtureStore(), "")

	all, err := cat.ListTopics(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"방문요양", "주간보호"}, all.Services)
	assert.Len(t, all.Topics, 2)
	assert.Equal(t, []string{"비용", "본인부담금"}, all.Topics[0].Keywords)

	daycare, err := cat.ListTopics(context.Background(), "주간보호")
	require.NoError(t, err)
	require.Len(t, daycare.Topics, 1)
	assert.Equal(t, "daycare_cost", daycare.Topics[0].Tag)
}

func TestFindTopic(t *testing.T) {
	cat := catalog.New(fixtureStore(), "")

	topic, err := cat.FindTopic(context.Background(), "visit_intro")
	require.NoError(t, err)
	assert.Equal(t, "방문요양 소개", topic.DisplayName)

	_, err = cat.FindTopic(context.Background(), "nope")
	assert.ErrorIs(t, err, catalog.ErrTopicNotFound)
}
