package tests

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"stealdeals/pkg/rest"
)

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	Intn    func(n int) int
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn:    random.Intn,
	}
}

// DealInput returns a form that passes the editor rules: the discounted
// price is always strictly below the original one.
func (r Randomizer) DealInput(categories []string) rest.DealInput {
	original := math.Round((100+r.Float64()*9900)*100) / 100 //nolint:mnd // skip
	discounted := math.Round(original*(0.1+r.Float64()*0.85)*100) / 100 //nolint:mnd // skip
	n := r.Intn(100000) //nolint:mnd // skip

	return rest.DealInput{
		Title:           fmt.Sprintf("Deal #%d", n),
		ImageURL:        fmt.Sprintf("https://img.example.com/%d.jpg", n),
		OriginalPrice:   original,
		DiscountedPrice: discounted,
		AffiliateURL:    fmt.Sprintf("https://shop.example.com/p/%d?tag=steal", n),
		Category:        categories[r.Intn(len(categories))],
		IsTrending:      r.Bool(),
	}
}
