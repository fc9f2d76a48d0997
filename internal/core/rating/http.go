// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/movies/internal/platform/middleware"
	requestutil "github.com/taibuivan/movies/internal/platform/request"
	"github.com/taibuivan/movies/internal/platform/respond"
	"github.com/taibuivan/movies/internal/platform/validate"
)

// Handler implements the HTTP layer for ratings.
type Handler struct {
	service *Service

	// voteGuards run before a vote is recorded (e.g. per-user throttling).
	voteGuards []func(http.Handler) http.Handler
}

// NewHandler constructs a rating [Handler]. voteGuards wrap the vote endpoint only.
func NewHandler(service *Service, voteGuards ...func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, voteGuards: voteGuards}
}

// RegisterMovieRoutes adds the per-movie rating endpoints to the movies router.
func (handler *Handler) RegisterMovieRoutes(router chi.Router) {
	router.Group(func(voter chi.Router) {
		voter.Use(middleware.RequireAuth)

		voter.With(handler.voteGuards...).Put("/{id}/ratings", handler.rateMovie)
		voter.Delete("/{id}/ratings", handler.deleteRating)
	})
}

// Routes returns a [chi.Router] with the viewer's own rating endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireAuth).Get("/me", handler.listMine)

	return router
}

// rateRequest is the inbound schema of a vote.
type rateRequest struct {
	Rating int `json:"rating" validate:"min=1,max=5"`
}

/*
PUT /api/movies/{id}/ratings.

Request:
  - rating: int (1..5)

Response:
  - 200: Summary after the vote
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND (unknown movie)
  - 429: RATE_LIMITED
*/
func (handler *Handler) rateMovie(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload rateRequest
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.service.Rate(request.Context(), requestutil.Param(request, "id"), payload.Rating, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

/*
DELETE /api/movies/{id}/ratings.

Response:
  - 204: Rating removed
  - 404: NOT_FOUND (no rating by this user)
*/
func (handler *Handler) deleteRating(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id"), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/ratings/me.

Response:
  - 200: []MovieRating
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ratings, err := handler.service.ListForUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ratings)
}
