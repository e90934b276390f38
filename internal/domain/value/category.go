package value

import (
	"errors"
	"fmt"
	"slices"
)

type Category string

const (
	CategoryMobiles     Category = "Mobiles"
	CategoryElectronics Category = "Electronics"
	CategoryFashion     Category = "Fashion"
	CategoryHome        Category = "Home"
	CategoryBeauty      Category = "Beauty"
	CategorySports      Category = "Sports"
	CategoryBooks       Category = "Books"

	// CategoryAll selects every category when filtering. It is never stored.
	CategoryAll Category = "All"
)

//nolint:gochecknoglobals
var categories = []Category{
	CategoryMobiles,
	CategoryElectronics,
	CategoryFashion,
	CategoryHome,
	CategoryBeauty,
	CategorySports,
	CategoryBooks,
}

var ErrUnknownCategory = errors.New("unknown category")

// Categories returns the storable categories in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}

	return c, nil
}

func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

func (c Category) String() string {
	return string(c)
}
