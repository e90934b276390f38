package entity

import (
	"math"
	"time"

	"stealdeals/internal/domain/value"
)

type Deal struct {
	ID              value.DealID
	Title           string
	ImageURL        string
	OriginalPrice   float64
	DiscountedPrice float64
	AffiliateURL    string
	Category        value.Category
	IsTrending      bool
	Clicks          int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DiscountRatio is the unrounded discount in percent used for ranking.
// It is zero for a non-positive original price.
func (d Deal) DiscountRatio() float64 {
	if d.OriginalPrice <= 0 {
		return 0
	}

	return (d.OriginalPrice - d.DiscountedPrice) / d.OriginalPrice * 100 //nolint:mnd // percent
}

// DiscountPercent is the rounded discount shown to visitors.
func (d Deal) DiscountPercent() int {
	return int(math.Round(d.DiscountRatio()))
}

// DealDraft carries the admin-editable fields of a deal. Create and update
// both take a full draft: updates replace every field.
type DealDraft struct {
	Title           string  `validate:"min=3,max=200"`
	ImageURL        string  `validate:"required,url"`
	OriginalPrice   float64 `validate:"gt=0"`
	DiscountedPrice float64 `validate:"gt=0"`
	AffiliateURL    string  `validate:"required,url"`
	Category        string  `validate:"required,category"`
	IsTrending      bool
}
