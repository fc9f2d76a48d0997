// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/movies/internal/platform/ctxutil"
	"github.com/taibuivan/movies/internal/platform/sec"
)

func newTestRouter(guards ...func(http.Handler) http.Handler) http.Handler {
	service, _ := newTestService()
	handler := NewHandler(service, guards...)

	router := chi.NewRouter()
	router.Route("/movies", handler.RegisterMovieRoutes)
	router.Mount("/ratings", handler.Routes())
	return router
}

func send(router http.Handler, method, target, body string, authenticated bool) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if authenticated {
		claims := &sec.AuthClaims{UserID: voterID, Role: string(sec.RoleMember)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_RateAndDelete(t *testing.T) {
	router := newTestRouter()
	target := "/movies/" + movieID + "/ratings"

	assert.Equal(t, http.StatusUnauthorized, send(router, http.MethodPut, target, `{"rating":4}`, false).Code)
	assert.Equal(t, http.StatusBadRequest, send(router, http.MethodPut, target, `{"rating":9}`, true).Code)

	rated := send(router, http.MethodPut, target, `{"rating":4}`, true)
	assert.Equal(t, http.StatusOK, rated.Code)
	assert.JSONEq(t, `{"data":{"rating":4,"userRating":4}}`, rated.Body.String())

	assert.Equal(t, http.StatusNoContent, send(router, http.MethodDelete, target, "", true).Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodDelete, target, "", true).Code)
}

func TestHandler_ListMine(t *testing.T) {
	router := newTestRouter()

	assert.Equal(t, http.StatusUnauthorized, send(router, http.MethodGet, "/ratings/me", "", false).Code)

	send(router, http.MethodPut, "/movies/"+movieID+"/ratings", `{"rating":5}`, true)

	mine := send(router, http.MethodGet, "/ratings/me", "", true)
	assert.Equal(t, http.StatusOK, mine.Code)
	assert.JSONEq(t, `{"data":[{"movieId":"`+movieID+`","slug":"the-matrix-1999","rating":5}]}`, mine.Body.String())
}

func TestHandler_VoteGuards(t *testing.T) {
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusTooManyRequests)
		})
	}
	router := newTestRouter(blocked)
	target := "/movies/" + movieID + "/ratings"

	assert.Equal(t, http.StatusTooManyRequests, send(router, http.MethodPut, target, `{"rating":4}`, true).Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodDelete, target, "", true).Code)
}
