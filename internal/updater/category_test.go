package updater

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("production-year")
	require.NoError(t, err)
	assert.Equal(t, CategoryProductionYear, c)

	c, err = ParseCategory(" Content_Rating ")
	require.NoError(t, err)
	assert.Equal(t, CategoryContentRating, c)

	_, err = ParseCategory("trivia")
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestCategoryRoundTrip(t *testing.T) {
	all := AllCategories()
	require.Len(t, all, 14)
	for _, c := range all {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	assert.Equal(t, "category(99)", Category(99).String())
}

func TestCategorySet(t *testing.T) {
	a := NewCategorySet(CategoryCast, CategoryTitle, CategoryGenre)
	b := NewCategorySet(CategoryGenre, CategoryCast, CategoryRuntime)

	got := a.Intersect(b)
	assert.Equal(t, []Category{CategoryGenre, CategoryCast}, got.Sorted())
	assert.Equal(t, []string{"genre", "cast"}, got.Names())
	assert.True(t, PersonCategories().Has(CategoryCrew))
	assert.False(t, PersonCategories().Has(CategoryTitle))
	assert.Len(t, AllCategorySet(), 14)

	col, ok := CategoryContentRating.Column()
	assert.True(t, ok)
	assert.Equal(t, "content_rating_id", col)
	_, ok = CategoryGenre.Column()
	assert.False(t, ok)
}
