package server

import (
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/service/deal"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/errcodes"
	"stealdeals/pkg/lox"
	"stealdeals/pkg/rest"
)

func newRESTDeal(d entity.Deal) rest.Deal {
	return rest.Deal{
		ID:              d.ID.String(),
		Title:           d.Title,
		ImageURL:        d.ImageURL,
		OriginalPrice:   d.OriginalPrice,
		DiscountedPrice: d.DiscountedPrice,
		DiscountPercent: d.DiscountPercent(),
		AffiliateURL:    d.AffiliateURL,
		Category:        d.Category.String(),
		IsTrending:      d.IsTrending,
		Clicks:          d.Clicks,
		CreatedAt:       d.CreatedAt,
	}
}

func newRESTDeals(deals []entity.Deal) []rest.Deal {
	return lox.Map(deals, newRESTDeal)
}

func newRESTSession(s entity.Session, withToken bool) rest.Session {
	session := rest.Session{
		ExpiresAt: s.ExpiresAt,
		User: rest.User{
			ID:      s.UserID.String(),
			Email:   s.Email,
			IsAdmin: s.IsAdmin,
		},
	}

	if withToken {
		session.AccessToken = s.Token
	}

	return session
}

func newDomainDraft(in rest.DealInput) entity.DealDraft {
	return entity.DealDraft{
		Title:           in.Title,
		ImageURL:        in.ImageURL,
		OriginalPrice:   in.OriginalPrice,
		DiscountedPrice: in.DiscountedPrice,
		AffiliateURL:    in.AffiliateURL,
		Category:        in.Category,
		IsTrending:      in.IsTrending,
	}
}

func dealIDParam(r *http.Request) (value.DealID, error) {
	id, err := value.ParseDealID(chi.URLParam(r, "id"))
	if err != nil {
		return value.DealID{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseDealID: %w", err),
			failure.WithCode(errcodes.InvalidDealID),
			failure.WithDescription("Invalid deal id"),
		)
	}

	return id, nil
}

func newRESTMutation(result deal.MutationResult) rest.DealMutation {
	mutation := rest.DealMutation{
		Deals:  newRESTDeals(result.Deals),
		Notice: result.Notice,
	}

	if result.Deal != nil {
		d := newRESTDeal(*result.Deal)
		mutation.Deal = &d
	}

	return mutation
}
