// Wire types of the public and admin HTTP API.
package rest

import "time"

type Deal struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ImageURL        string    `json:"imageUrl"`
	OriginalPrice   float64   `json:"originalPrice"`
	DiscountedPrice float64   `json:"discountedPrice"`
	DiscountPercent int       `json:"discountPercent"`
	AffiliateURL    string    `json:"affiliateUrl"`
	Category        string    `json:"category"`
	IsTrending      bool      `json:"isTrending"`
	Clicks          int64     `json:"clicks"`
	CreatedAt       time.Time `json:"createdAt"`
}

// DealListing is the storefront page: trending strip plus the filtered grid.
type DealListing struct {
	Trending []Deal `json:"trending"`
	Deals    []Deal `json:"deals"`
	Total    int    `json:"total"`
	// Notice is set when a stale snapshot is served after a failed fetch.
	Notice string `json:"notice,omitempty"`
}

type AdminDeals struct {
	Deals []Deal `json:"deals"`
}

// DealMutation answers every admin write with the affected deal and the
// re-fetched list. Deal is absent after a delete.
type DealMutation struct {
	Deal   *Deal  `json:"deal,omitempty"`
	Deals  []Deal `json:"deals"`
	Notice string `json:"notice,omitempty"`
}

// DealInput is the admin form. Prices are validated by the editor, not here,
// so a missing price is reported with the same message as a non-positive one.
type DealInput struct {
	Title           string  `json:"title"`
	ImageURL        string  `json:"imageUrl"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	AffiliateURL    string  `json:"affiliateUrl"`
	Category        string  `json:"category"`
	IsTrending      bool    `json:"isTrending"`
}

type ClickResult struct {
	DealID       string `json:"dealId"`
	Clicks       int64  `json:"clicks"`
	AffiliateURL string `json:"affiliateUrl"`
	// Pending is true when the increment was queued rather than applied.
	Pending bool `json:"pending"`
}

type Categories struct {
	Categories []string `json:"categories"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	AccessToken string    `json:"accessToken,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        User      `json:"user"`
}

type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code ErrorCode `json:"code"`

	// Message is meant to be shown to the user as is.
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

type ErrorCode string
