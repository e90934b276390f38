package server

import (
	"context"
	"fmt"
	"net/http"

	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/service/catalog"
	"stealdeals/internal/domain/service/deal"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/httpx/reply"
	"stealdeals/pkg/rest"
)

type dealCatalog interface {
	Listing(ctx context.Context, q catalog.Query) (catalog.Listing, error)
}

type dealReader interface {
	Get(ctx context.Context, id value.DealID) (entity.Deal, error)
}

type clickService interface {
	Click(ctx context.Context, id value.DealID) (deal.Click, error)
}

type DealServer struct {
	catalog dealCatalog
	deals   dealReader
	clicks  clickService
}

func NewDealServer(catalog dealCatalog, deals dealReader, clicks clickService) DealServer {
	return DealServer{
		catalog: catalog,
		deals:   deals,
		clicks:  clicks,
	}
}

func (s DealServer) getV1Categories(w http.ResponseWriter, r *http.Request) error {
	categories := []string{value.CategoryAll.String()}
	for _, c := range value.Categories() {
		categories = append(categories, c.String())
	}

	reply.JSON(r.Context(), w, http.StatusOK, rest.Categories{Categories: categories})

	return nil
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	query := catalog.Query{
		Search:   r.URL.Query().Get("search"),
		Category: value.Category(r.URL.Query().Get("category")),
	}

	listing, err := s.catalog.Listing(ctx, query)
	if err != nil {
		return fmt.Errorf("catalog.Listing: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.DealListing{
		Trending: newRESTDeals(listing.Trending),
		Deals:    newRESTDeals(listing.Deals),
		Total:    len(listing.Deals),
		Notice:   listing.Notice,
	})

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := dealIDParam(r)
	if err != nil {
		return err
	}

	d, err := s.deals.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("dealService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(d))

	return nil
}

func (s DealServer) postV1DealClicks(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := dealIDParam(r)
	if err != nil {
		return err
	}

	click, err := s.clicks.Click(ctx, id)
	if err != nil {
		return fmt.Errorf("clickService.Click: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ClickResult{
		DealID:       click.DealID.String(),
		Clicks:       click.Clicks,
		AffiliateURL: click.AffiliateURL,
		Pending:      click.Pending,
	})

	return nil
}

// getGoDeal is the buy link: it counts the click and sends the visitor to the
// affiliate URL.
func (s DealServer) getGoDeal(w http.ResponseWriter, r *http.Request) error {
	id, err := dealIDParam(r)
	if err != nil {
		return err
	}

	click, err := s.clicks.Click(r.Context(), id)
	if err != nil {
		return fmt.Errorf("clickService.Click: %w", err)
	}

	reply.Redirect(w, r, click.AffiliateURL)

	return nil
}
