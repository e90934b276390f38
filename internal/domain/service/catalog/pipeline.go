package catalog

import (
	"cmp"
	"slices"
	"strings"

	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
)

// TrendingLimit caps the promoted strip on the storefront.
const TrendingLimit = 5

// Query selects the filtered view. An empty Category means CategoryAll.
type Query struct {
	Search   string
	Category value.Category
}

// Trending returns at most TrendingLimit trending deals, best discount
// first. Deals with equal discount keep their input order.
func Trending(deals []entity.Deal) []entity.Deal {
	trending := make([]entity.Deal, 0, TrendingLimit)

	for _, d := range deals {
		if d.IsTrending {
			trending = append(trending, d)
		}
	}

	sortByDiscount(trending)

	if len(trending) > TrendingLimit {
		trending = trending[:TrendingLimit]
	}

	return trending
}

// Filter narrows deals by category and then by a case-insensitive substring
// of title or category, and sorts the rest by discount, best first. The
// input slice is left untouched.
func Filter(deals []entity.Deal, q Query) []entity.Deal {
	filtered := slices.Clone(deals)

	if q.Category != "" && q.Category != value.CategoryAll {
		filtered = slices.DeleteFunc(filtered, func(d entity.Deal) bool {
			return d.Category != q.Category
		})
	}

	// A blank term does not filter, but a non-blank one is matched as typed,
	// surrounding spaces included.
	if strings.TrimSpace(q.Search) != "" {
		term := strings.ToLower(q.Search)

		filtered = slices.DeleteFunc(filtered, func(d entity.Deal) bool {
			return !strings.Contains(strings.ToLower(d.Title), term) &&
				!strings.Contains(strings.ToLower(d.Category.String()), term)
		})
	}

	sortByDiscount(filtered)

	return filtered
}

func sortByDiscount(deals []entity.Deal) {
	slices.SortStableFunc(deals, func(a, b entity.Deal) int {
		return cmp.Compare(b.DiscountRatio(), a.DiscountRatio())
	})
}
