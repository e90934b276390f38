package persistence

import (
	"time"

	"github.com/google/uuid"

	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
)

// dealSchema maps a row of the deals table.
type dealSchema struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	ImageURL        string    `db:"image_url"`
	OriginalPrice   float64   `db:"original_price"`
	DiscountedPrice float64   `db:"discounted_price"`
	AffiliateURL    string    `db:"affiliate_url"`
	Category        string    `db:"category"`
	IsTrending      bool      `db:"is_trending"`
	Clicks          int64     `db:"clicks"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func fromDeal(d entity.Deal) dealSchema {
	return dealSchema{
		ID:              uuid.UUID(d.ID),
		Title:           d.Title,
		ImageURL:        d.ImageURL,
		OriginalPrice:   d.OriginalPrice,
		DiscountedPrice: d.DiscountedPrice,
		AffiliateURL:    d.AffiliateURL,
		Category:        d.Category.String(),
		IsTrending:      d.IsTrending,
		Clicks:          d.Clicks,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// toDomain keeps the stored category as is, even if it is no longer one of
// the known values: such deals stay listed but never match a category filter.
func (s dealSchema) toDomain() entity.Deal {
	return entity.Deal{
		ID:              value.DealID(s.ID),
		Title:           s.Title,
		ImageURL:        s.ImageURL,
		OriginalPrice:   s.OriginalPrice,
		DiscountedPrice: s.DiscountedPrice,
		AffiliateURL:    s.AffiliateURL,
		Category:        value.Category(s.Category),
		IsTrending:      s.IsTrending,
		Clicks:          s.Clicks,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type userSchema struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s userSchema) toDomain() entity.User {
	return entity.User{
		ID:           value.UserID(s.ID),
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		CreatedAt:    s.CreatedAt,
	}
}
