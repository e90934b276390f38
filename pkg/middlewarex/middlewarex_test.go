package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"stealdeals/pkg/contextx"
	"stealdeals/pkg/middlewarex"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		incoming string
	}{
		{name: "Generated", incoming: ""},
		{name: "Propagated", incoming: "upstream-trace"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var seen contextx.TraceID

			h := middlewarex.TraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				traceID, err := contextx.TraceIDFromContext(r.Context())
				rq.NoError(err)

				seen = traceID
			}))

			r := httptest.NewRequest(http.MethodGet, "/v1/deals", http.NoBody)
			if tc.incoming != "" {
				r.Header.Set("X-Trace-Id", tc.incoming)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			rq.NotEmpty(seen)
			rq.Equal(seen.String(), w.Header().Get("X-Trace-Id"))

			if tc.incoming != "" {
				rq.Equal(tc.incoming, seen.String())
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()

	rq.NotPanics(func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	})
	rq.Equal(http.StatusInternalServerError, w.Code)
}

func TestMetrics(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.Metrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	rq.Equal(http.StatusTeapot, w.Code)
}
