package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchItems() []Item {
	return []Item{
		{ID: "1", Title: "Rose Water Toner", Category: "Skincare"},
		{ID: "2", Title: "Argan Hair Oil", Category: "Hair Care", Featured: true},
		{ID: "3", Title: "Rosemary Shampoo", Category: "Hair Care"},
		{ID: "4", Title: "Baby Lotion", Category: "Baby Care", Featured: true},
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hair-care", Slugify("Hair Care"))
	assert.Equal(t, "skincare", Slugify("  Skincare "))
	assert.Equal(t, "", Slugify(""))
}

func TestFilter(t *testing.T) {
	items := searchItems()

	t.Run("no filters returns everything", func(t *testing.T) {
		assert.Len(t, Filter(items, "", ""), 4)
	})

	t.Run("by category slug", func(t *testing.T) {
		got := Filter(items, "hair-care", "")
		require.Len(t, got, 2)
		assert.Equal(t, "2", got[0].ID)
		assert.Equal(t, "3", got[1].ID)
	})

	t.Run("by query is case-insensitive", func(t *testing.T) {
		got := Filter(items, "", "ROSE")
		require.Len(t, got, 2)
		assert.Equal(t, "Rose Water Toner", got[0].Title)
		assert.Equal(t, "Rosemary Shampoo", got[1].Title)
	})

	t.Run("category and query combine", func(t *testing.T) {
		got := Filter(items, "hair-care", "rose")
		require.Len(t, got, 1)
		assert.Equal(t, "3", got[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Filter(items, "skincare", "shampoo"))
	})
}

func TestFeatured(t *testing.T) {
	got := Featured(searchItems())
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestSuggest(t *testing.T) {
	items := searchItems()

	t.Run("prefix matches come first", func(t *testing.T) {
		got := Suggest(items, "rose", 10)
		require.Len(t, got, 2)
		assert.Equal(t, "Rose Water Toner", got[0])
		assert.Equal(t, "Rosemary Shampoo", got[1])
	})

	t.Run("substring matches included", func(t *testing.T) {
		got := Suggest(items, "oil", 10)
		require.Len(t, got, 1)
		assert.Equal(t, "Argan Hair Oil", got[0])
	})

	t.Run("limit applies", func(t *testing.T) {
		assert.Len(t, Suggest(items, "a", 2), 2)
	})

	t.Run("empty query suggests nothing", func(t *testing.T) {
		assert.Nil(t, Suggest(items, "  ", 10))
	})
}
