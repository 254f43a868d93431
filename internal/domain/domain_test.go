package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		context string
		want    SchemaVariant
	}{
		{name: "empty context", context: "", want: VariantGeneric},
		{name: "whitespace only", context: " \t\n ", want: VariantGeneric},
		{name: "real context", context: "We sell cork yoga mats", want: VariantPersonalized},
		{name: "padded context", context: "  coffee roaster  ", want: VariantPersonalized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := VariantFor(Request{Country: "SG", BusinessContext: tc.context})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSchemaVariantString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "generic", VariantGeneric.String())
	assert.Equal(t, "personalized", VariantPersonalized.String())
	assert.Equal(t, "variant(7)", SchemaVariant(7).String())
}

func TestCatalogCategoryNameSearchesGroups(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()

	name, ok := c.CategoryName("ALL")
	require.True(t, ok)
	assert.Equal(t, "All Categories", name)

	name, ok = c.CategoryName("TECH_SERVICES")
	require.True(t, ok, "codes nested inside groups must resolve")
	assert.Equal(t, "Tech & IT Services", name)

	_, ok = c.CategoryName("")
	assert.False(t, ok, "group headings have no code and must not match an empty code")

	_, ok = c.CategoryName("GARDENING")
	assert.False(t, ok)
}

func TestCatalogNormalize(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()

	t.Run("valid request is unchanged", func(t *testing.T) {
		in := Request{Country: "TH", Category: "FASHION", TimeRange: "PAST_30_DAYS", ListSize: 20, BusinessContext: "x"}
		assert.Equal(t, in, c.Normalize(in))
	})

	t.Run("unknown codes fall back to defaults", func(t *testing.T) {
		in := Request{Country: "US", Category: "NOPE", TimeRange: "FOREVER", ListSize: 17, BusinessContext: "keep me"}
		got := c.Normalize(in)
		assert.Equal(t, Request{
			Country:         DefaultCountry,
			Category:        AllCategories,
			TimeRange:       DefaultTimeRange,
			ListSize:        0,
			BusinessContext: "keep me",
		}, got)
	})
}

func TestCatalogDescribe(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()

	d := c.Describe(Request{Country: "MY", Category: "HOME_KITCHEN", TimeRange: "PAST_90_DAYS"})
	assert.Equal(t, "Malaysia", d.CountryName)
	assert.Equal(t, "Home & Kitchen", d.CategoryName)
	assert.Equal(t, "Past 90 Days", d.TimeRangeName)
	assert.False(t, d.AllCategories)

	d = c.Describe(Request{Country: "ZZ", Category: "ZZ", TimeRange: "ZZ"})
	assert.Equal(t, "the selected country", d.CountryName)
	assert.Equal(t, "All Categories", d.CategoryName)
	assert.Equal(t, "Past 90 Days", d.TimeRangeName)
	assert.True(t, d.AllCategories)
}

func TestCheckRanking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ranks   []int
		wantErr bool
	}{
		{name: "empty list", ranks: nil},
		{name: "contiguous", ranks: []int{1, 2, 3}},
		{name: "starts at zero", ranks: []int{0, 1, 2}, wantErr: true},
		{name: "gap", ranks: []int{1, 3, 4}, wantErr: true},
		{name: "duplicate", ranks: []int{1, 1, 2}, wantErr: true},
		{name: "unsorted", ranks: []int{2, 1, 3}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			products := make([]ProductTrend, len(tc.ranks))
			for i, r := range tc.ranks {
				products[i] = ProductTrend{Rank: r, ProductName: "p"}
			}
			err := CheckRanking(products)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRanking)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSortProducts(t *testing.T) {
	t.Parallel()

	products := []ProductTrend{
		{Rank: 1, ProductName: "portable projector", TrendScore: 92},
		{Rank: 2, ProductName: "Air Fryer", TrendScore: 85},
		{Rank: 3, ProductName: "cold brew maker", TrendScore: 88},
	}

	names := func(ps []ProductTrend) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.ProductName
		}
		return out
	}

	assert.Equal(t,
		[]string{"Air Fryer", "cold brew maker", "portable projector"},
		names(SortProducts(products, SortByProductName, Ascending)))
	assert.Equal(t,
		[]string{"portable projector", "cold brew maker", "Air Fryer"},
		names(SortProducts(products, SortByTrendScore, Descending)))
	assert.Equal(t,
		[]string{"cold brew maker", "Air Fryer", "portable projector"},
		names(SortProducts(products, SortByRank, Descending)))

	assert.Equal(t, "portable projector", products[0].ProductName, "input must not be reordered")
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SortByTrendScore, ParseSortKey("trendScore"))
	assert.Equal(t, SortByRank, ParseSortKey("price"))
	assert.Equal(t, Descending, ParseSortDirection("DESC"))
	assert.Equal(t, Ascending, ParseSortDirection(""))
}

func TestExploreURL(t *testing.T) {
	t.Parallel()

	got := ExploreURL("Samsung Freestyle Gen 2", "SG")
	assert.Equal(t, "https://trends.google.com/trends/explore?geo=SG&q=Samsung+Freestyle+Gen+2", got)
}

func TestFragmentRoundTrip(t *testing.T) {
	t.Parallel()

	in := Request{
		Country:         "VN",
		Category:        "FMCG",
		TimeRange:       "PAST_90_DAYS",
		ListSize:        20,
		BusinessContext: "Organic tea & coffee / 100% local",
	}

	out, err := ParseFragment("#" + in.Fragment())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFragmentOmitsBlankDescription(t *testing.T) {
	t.Parallel()

	f := Request{Country: "SG", Category: "ALL", BusinessContext: "   "}.Fragment()
	assert.NotContains(t, f, ParamBusinessDescription)
	assert.NotContains(t, f, ParamListSize)
}

func TestParseFragmentIgnoresBadListSize(t *testing.T) {
	t.Parallel()

	r, err := ParseFragment("country=SG&listSize=lots")
	require.NoError(t, err)
	assert.Equal(t, 0, r.ListSize)
	assert.Equal(t, "SG", r.Country)
}
