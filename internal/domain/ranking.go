package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CheckRanking verifies that products are ordered by rank and that the ranks
// are exactly 1..len(products).
func CheckRanking(products []ProductTrend) error {
	for i, p := range products {
		want := i + 1
		if p.Rank != want {
			return fmt.Errorf("%w: position %d has rank %d, want %d",
				ErrInvalidRanking, i, p.Rank, want)
		}
	}
	return nil
}

// SortKey names a sortable product column.
type SortKey string

// Sortable columns.
const (
	SortByRank        SortKey = "rank"
	SortByProductName SortKey = "productName"
	SortByTrendScore  SortKey = "trendScore"
)

// SortDirection is ascending or descending.
type SortDirection string

// Sort directions.
const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// ParseSortKey maps a query value to a SortKey, defaulting to rank.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByProductName, SortByTrendScore:
		return SortKey(s)
	default:
		return SortByRank
	}
}

// ParseSortDirection accepts "asc"/"ascending" and "desc"/"descending".
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(s) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// SortProducts returns a sorted copy of products. The input is not modified.
func SortProducts(products []ProductTrend, key SortKey, dir SortDirection) []ProductTrend {
	sorted := make([]ProductTrend, len(products))
	copy(sorted, products)

	less := func(a, b ProductTrend) bool {
		switch key {
		case SortByProductName:
			return strings.ToLower(a.ProductName) < strings.ToLower(b.ProductName)
		case SortByTrendScore:
			return a.TrendScore < b.TrendScore
		default:
			return a.Rank < b.Rank
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if dir == Descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

const trendsExploreURL = "https://trends.google.com/trends/explore"

// ExploreURL builds a Google Trends explore link for a term in a country.
func ExploreURL(term, countryCode string) string {
	q := url.Values{}
	q.Set("q", term)
	q.Set("geo", countryCode)
	return trendsExploreURL + "?" + q.Encode()
}
