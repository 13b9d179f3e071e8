package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/zaika/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/foods/{foodID}", "foods.show", ok)

	path, found := r.Path("foods.show")
	require.True(t, found)
	assert.Equal(t, "/foods/{foodID}", path)

	url, err := r.URL("foods.show", map[string]string{"foodID": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/foods/42", url)

	_, err = r.URL("foods.show", nil)
	assert.Error(t, err, "unsubstituted params are an error")

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", tag("outer"))
	inner := api.Group("/orders", tag("inner"))
	inner.Get("/create", "orders.create", ok, tag("route"))

	path, found := r.Path("orders.create")
	require.True(t, found)
	assert.Equal(t, "/api/orders/create", path)

	res := httptest.NewRecorder()
	r.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/orders/create", nil))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []string{"outer", "inner", "route"}, order)
}

func TestURLParamsReachHandlers(t *testing.T) {
	r := router.New()
	var got string
	r.Get("/orders/track/{orderID}", "orders.track", func(w http.ResponseWriter, req *http.Request) {
		got = chi.URLParam(req, "orderID")
		w.WriteHeader(http.StatusOK)
	})

	res := httptest.NewRecorder()
	r.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/orders/track/abc123", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "abc123", got)
}

func TestMethodNotAllowed(t *testing.T) {
	r := router.New()
	r.Post("/orders/create", "orders.create", ok)

	res := httptest.NewRecorder()
	r.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/orders/create", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)
}
