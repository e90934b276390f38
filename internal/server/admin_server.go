package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/service/deal"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/httpx/reply"
	"stealdeals/pkg/httpx/req"
	"stealdeals/pkg/rest"
)

type dealEditor interface {
	List(ctx context.Context) ([]entity.Deal, error)
	Create(ctx context.Context, draft entity.DealDraft) (deal.MutationResult, error)
	Update(ctx context.Context, id value.DealID, draft entity.DealDraft) (deal.MutationResult, error)
	Delete(ctx context.Context, id value.DealID, confirmed bool) (deal.MutationResult, error)
}

type AdminServer struct {
	editor dealEditor
}

func NewAdminServer(editor dealEditor) AdminServer {
	return AdminServer{editor: editor}
}

func (s AdminServer) getV1AdminDeals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	deals, err := s.editor.List(ctx)
	if err != nil {
		return fmt.Errorf("editorService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.AdminDeals{Deals: newRESTDeals(deals)})

	return nil
}

func (s AdminServer) postV1AdminDeals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.DealInput

	if err := req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, err := s.editor.Create(ctx, newDomainDraft(request))
	if err != nil {
		return fmt.Errorf("editorService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTMutation(result))

	return nil
}

func (s AdminServer) putV1AdminDeal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := dealIDParam(r)
	if err != nil {
		return err
	}

	var request rest.DealInput

	if err = req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, err := s.editor.Update(ctx, id, newDomainDraft(request))
	if err != nil {
		return fmt.Errorf("editorService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTMutation(result))

	return nil
}

// deleteV1AdminDeal requires ?confirm=true.
func (s AdminServer) deleteV1AdminDeal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := dealIDParam(r)
	if err != nil {
		return err
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	result, err := s.editor.Delete(ctx, id, confirmed)
	if err != nil {
		return fmt.Errorf("editorService.Delete: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTMutation(result))

	return nil
}
