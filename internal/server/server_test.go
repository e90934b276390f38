package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/service/catalog"
	"stealdeals/internal/domain/service/deal"
	"stealdeals/internal/domain/value"
	"stealdeals/internal/server"
	"stealdeals/pkg/errcodes"
	"stealdeals/pkg/logx"
	"stealdeals/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const adminToken = "admin-token"

type listRepo struct {
	deals []entity.Deal
	err   error
}

func (r *listRepo) List(context.Context) ([]entity.Deal, error) {
	return r.deals, r.err
}

type fakeDeals struct {
	deals map[value.DealID]entity.Deal
}

func (f fakeDeals) Get(_ context.Context, id value.DealID) (entity.Deal, error) {
	d, ok := f.deals[id]
	if !ok {
		return entity.Deal{}, failure.NewNotFoundError("deal not found", failure.WithCode(errcodes.DealNotFound))
	}

	return d, nil
}

func (f fakeDeals) Click(ctx context.Context, id value.DealID) (deal.Click, error) {
	d, err := f.Get(ctx, id)
	if err != nil {
		return deal.Click{}, err
	}

	return deal.Click{DealID: id, AffiliateURL: d.AffiliateURL, Clicks: d.Clicks + 1}, nil
}

type fakeAuth struct{}

func (fakeAuth) SignIn(_ context.Context, email, password string) (entity.Session, error) {
	if email != "admin@example.com" || password != "secret" {
		return entity.Session{}, failure.NewUnauthorizedError("mismatch", failure.WithCode(errcodes.CredentialsMismatch))
	}

	return entity.Session{Token: adminToken, Email: email, IsAdmin: true, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (fakeAuth) Session(_ context.Context, token string) (entity.Session, error) {
	switch token {
	case adminToken:
		return entity.Session{Token: token, Email: "admin@example.com", IsAdmin: true}, nil
	case "user-token":
		return entity.Session{Token: token, Email: "user@example.com"}, nil
	default:
		return entity.Session{}, failure.NewUnauthorizedError("invalid", failure.WithCode(errcodes.SessionInvalid))
	}
}

func (a fakeAuth) SignOut(ctx context.Context, token string) error {
	_, err := a.Session(ctx, token)
	return err
}

func (a fakeAuth) RequireAdmin(ctx context.Context, token string) (entity.Session, error) {
	s, err := a.Session(ctx, token)
	if err != nil {
		return entity.Session{}, err
	}

	if !s.IsAdmin {
		return entity.Session{}, failure.NewForbiddenError("not admin", failure.WithCode(errcodes.AdminRoleRequired))
	}

	return s, nil
}

type fakeEditor struct {
	deals   []entity.Deal
	deleted []value.DealID
}

func (f *fakeEditor) List(context.Context) ([]entity.Deal, error) {
	return f.deals, nil
}

func (f *fakeEditor) Create(_ context.Context, draft entity.DealDraft) (deal.MutationResult, error) {
	if draft.DiscountedPrice >= draft.OriginalPrice {
		return deal.MutationResult{}, failure.NewInvalidArgumentError(
			"discount",
			failure.WithCode(errcodes.DiscountNotBelowOriginal),
			failure.WithDescription("Discounted price must be less than original price"),
		)
	}

	d := entity.Deal{
		ID:              value.NewDealID(),
		Title:           draft.Title,
		OriginalPrice:   draft.OriginalPrice,
		DiscountedPrice: draft.DiscountedPrice,
		Category:        value.Category(draft.Category),
	}
	f.deals = append(f.deals, d)

	return deal.MutationResult{Deal: &d, Deals: f.deals}, nil
}

func (f *fakeEditor) Update(_ context.Context, id value.DealID, draft entity.DealDraft) (deal.MutationResult, error) {
	return deal.MutationResult{Deal: &entity.Deal{ID: id, Title: draft.Title}, Deals: f.deals}, nil
}

func (f *fakeEditor) Delete(_ context.Context, id value.DealID, confirmed bool) (deal.MutationResult, error) {
	if !confirmed {
		return deal.MutationResult{}, failure.NewInvalidArgumentError("not confirmed", failure.WithCode(errcodes.DeleteNotConfirmed))
	}

	f.deleted = append(f.deleted, id)

	return deal.MutationResult{Deals: f.deals}, nil
}

type fixture struct {
	handler http.Handler
	repo    *listRepo
	editor  *fakeEditor
	deals   []entity.Deal
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	deals := []entity.Deal{
		{ID: value.DealID(uuid.New()), Title: "Phone A", OriginalPrice: 1000, DiscountedPrice: 500, IsTrending: true, Category: value.CategoryMobiles, AffiliateURL: "https://shop.example.com/a"},
		{ID: value.DealID(uuid.New()), Title: "Phone B", OriginalPrice: 800, DiscountedPrice: 400, IsTrending: true, Category: value.CategoryMobiles, AffiliateURL: "https://shop.example.com/b"},
		{ID: value.DealID(uuid.New()), Title: "Novel", OriginalPrice: 500, DiscountedPrice: 490, Category: value.CategoryBooks, AffiliateURL: "https://shop.example.com/c"},
	}

	byID := make(map[value.DealID]entity.Deal, len(deals))
	for _, d := range deals {
		byID[d.ID] = d
	}

	repo := &listRepo{deals: deals}
	editor := &fakeEditor{deals: deals}
	reader := fakeDeals{deals: byID}

	srv := server.NewServer(
		server.NewDealServer(catalog.NewStore(repo), reader, reader),
		server.NewAuthServer(fakeAuth{}),
		server.NewAdminServer(editor),
	)

	return fixture{
		handler: srv.Handler(logx.NewSensitiveDataMasker()),
		repo:    repo,
		editor:  editor,
		deals:   deals,
	}
}

func (f fixture) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func TestGetCategories(t *testing.T) {
	t.Parallel()

	w := newFixture(t).do(t, http.MethodGet, "/v1/categories", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[rest.Categories](t, w)
	require.Equal(t, []string{"All", "Mobiles", "Electronics", "Fashion", "Home", "Beauty", "Sports", "Books"}, got.Categories)
}

func TestGetDeals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantTotal int
		wantFirst string
	}{
		{name: "all", query: "", wantTotal: 3, wantFirst: "Phone A"},
		{name: "category", query: "?category=Books", wantTotal: 1, wantFirst: "Novel"},
		{name: "search", query: "?search=PHONE%20b", wantTotal: 1, wantFirst: "Phone B"},
		{name: "search by category name", query: "?search=mobi", wantTotal: 2, wantFirst: "Phone A"},
		{name: "blank search", query: "?search=%20%20", wantTotal: 3, wantFirst: "Phone A"},
		{name: "unknown category", query: "?category=Toys", wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := newFixture(t).do(t, http.MethodGet, "/v1/deals"+tt.query, "", "")
			require.Equal(t, http.StatusOK, w.Code)

			got := decode[rest.DealListing](t, w)
			require.Equal(t, tt.wantTotal, got.Total)
			require.Len(t, got.Deals, tt.wantTotal)
			require.Len(t, got.Trending, 2)
			require.Empty(t, got.Notice)

			if tt.wantTotal > 0 {
				require.Equal(t, tt.wantFirst, got.Deals[0].Title)
			}
		})
	}
}

func TestGetDealsStaleSnapshot(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/v1/deals", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	f.repo.err = errors.New("connection refused")

	w = f.do(t, http.MethodGet, "/v1/deals", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[rest.DealListing](t, w)
	require.Equal(t, catalog.NoticeFetchFailed, got.Notice)
	require.Equal(t, 3, got.Total)
}

func TestGetDealsFirstFetchFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.repo.err = errors.New("connection refused")

	w := f.do(t, http.MethodGet, "/v1/deals", "", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	got := decode[rest.Error](t, w)
	require.Equal(t, rest.ErrorCode(errcodes.InternalServerError), got.Code)
	require.Equal(t, catalog.NoticeFetchFailed, got.Message)
	require.NotEmpty(t, got.SupportID)
}

func TestGetDeal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/v1/deals/"+f.deals[0].ID.String(), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 50, decode[rest.Deal](t, w).DiscountPercent)

	w = f.do(t, http.MethodGet, "/v1/deals/not-a-uuid", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, rest.ErrorCode(errcodes.InvalidDealID), decode[rest.Error](t, w).Code)

	w = f.do(t, http.MethodGet, "/v1/deals/"+uuid.NewString(), "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, rest.ErrorCode(errcodes.DealNotFound), decode[rest.Error](t, w).Code)
}

func TestClick(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	d := f.deals[1]

	w := f.do(t, http.MethodPost, "/v1/deals/"+d.ID.String()+"/clicks", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[rest.ClickResult](t, w)
	require.Equal(t, d.AffiliateURL, got.AffiliateURL)
	require.EqualValues(t, 1, got.Clicks)

	w = f.do(t, http.MethodGet, "/go/"+d.ID.String(), "", "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, d.AffiliateURL, w.Header().Get("Location"))

	w = f.do(t, http.MethodGet, "/go/"+uuid.NewString(), "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Empty(t, w.Header().Get("Location"))
}

func TestAuth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/v1/auth/sign-in", "", `{"email":"admin@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, adminToken, decode[rest.Session](t, w).AccessToken)

	w = f.do(t, http.MethodPost, "/v1/auth/sign-in", "", `{"email":"admin@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, rest.ErrorCode(errcodes.CredentialsMismatch), decode[rest.Error](t, w).Code)

	w = f.do(t, http.MethodPost, "/v1/auth/sign-in", "", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/v1/auth/session", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	session := decode[rest.Session](t, w)
	require.True(t, session.User.IsAdmin)
	require.Empty(t, session.AccessToken)

	w = f.do(t, http.MethodPost, "/v1/auth/sign-out", adminToken, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/v1/auth/session", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, rest.ErrorCode(errcodes.SessionRequired), decode[rest.Error](t, w).Code)
}

func TestAdminGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized, wantCode: errcodes.SessionRequired.String()},
		{name: "invalid token", token: "forged", wantStatus: http.StatusUnauthorized, wantCode: errcodes.SessionInvalid.String()},
		{name: "not an admin", token: "user-token", wantStatus: http.StatusForbidden, wantCode: errcodes.AdminRoleRequired.String()},
		{name: "admin", token: adminToken, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := newFixture(t).do(t, http.MethodGet, "/v1/admin/deals", tt.token, "")
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantCode != "" {
				require.Equal(t, rest.ErrorCode(tt.wantCode), decode[rest.Error](t, w).Code)
				return
			}

			require.Len(t, decode[rest.AdminDeals](t, w).Deals, 3)
		})
	}
}

func TestAdminMutations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	body := `{"title":"Headphones","imageUrl":"https://img.example.com/h.png","originalPrice":200,` +
		`"discountedPrice":150,"affiliateUrl":"https://shop.example.com/h","category":"Electronics","isTrending":false}`

	w := f.do(t, http.MethodPost, "/v1/admin/deals", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[rest.DealMutation](t, w)
	require.NotNil(t, created.Deal)
	require.Equal(t, "Headphones", created.Deal.Title)
	require.Len(t, created.Deals, 4)

	bad := strings.Replace(body, `"discountedPrice":150`, `"discountedPrice":250`, 1)

	w = f.do(t, http.MethodPost, "/v1/admin/deals", adminToken, bad)
	require.Equal(t, http.StatusBadRequest, w.Code)

	errBody := decode[rest.Error](t, w)
	require.Equal(t, rest.ErrorCode(errcodes.DiscountNotBelowOriginal), errBody.Code)
	require.Equal(t, "Discounted price must be less than original price", errBody.Message)

	w = f.do(t, http.MethodPut, "/v1/admin/deals/"+f.deals[0].ID.String(), adminToken, body)
	require.Equal(t, http.StatusOK, w.Code)

	target := "/v1/admin/deals/" + f.deals[2].ID.String()

	w = f.do(t, http.MethodDelete, target, adminToken, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, rest.ErrorCode(errcodes.DeleteNotConfirmed), decode[rest.Error](t, w).Code)
	require.Empty(t, f.editor.deleted)

	w = f.do(t, http.MethodDelete, target+"?confirm=true", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decode[rest.DealMutation](t, w).Deal)
	require.Equal(t, []value.DealID{f.deals[2].ID}, f.editor.deleted)
}
