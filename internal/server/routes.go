package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stealdeals/pkg/httpx/reply"
	"stealdeals/pkg/logx"
	"stealdeals/pkg/middlewarex"
)

const logFieldMaxLen = 4096

// Handler builds the router with the request middleware chain.
func (s Server) Handler(masker logx.SensitiveDataMaskerInterface) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.Metrics,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/go/{id}", handler(s.getGoDeal))

	r.Route("/v1", func(r chi.Router) {
		// unauthorized zone
		r.Get("/categories", handler(s.getV1Categories))

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", handler(s.getV1Deals))
			r.Get("/{id}", handler(s.getV1Deal))
			r.Post("/{id}/clicks", handler(s.postV1DealClicks))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-in", handler(s.postV1SignIn))
			r.Post("/sign-out", handler(s.postV1SignOut))
			r.Get("/session", handler(s.getV1Session))
		})

		// admin zone
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/deals", handler(s.getV1AdminDeals))
			r.Post("/deals", handler(s.postV1AdminDeals))
			r.Put("/deals/{id}", handler(s.putV1AdminDeal))
			r.Delete("/deals/{id}", handler(s.deleteV1AdminDeal))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
