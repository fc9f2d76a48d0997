// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/movies/internal/platform/ctxutil"
	"github.com/taibuivan/movies/internal/platform/middleware"
	requestutil "github.com/taibuivan/movies/internal/platform/request"
	"github.com/taibuivan/movies/internal/platform/respond"
	"github.com/taibuivan/movies/internal/platform/sec"
	"github.com/taibuivan/movies/internal/platform/validate"
	"github.com/taibuivan/movies/pkg/pagination"
	"github.com/taibuivan/movies/pkg/slice"
)

// # Handler Implementation

// Handler implements the HTTP layer of the movie catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a movie [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the catalogue endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): Listing and lookup, personalised when a viewer is known.
//   - Curation: Create and update require [sec.RoleTrustedMember].
//   - Removal: Delete requires [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listMovies)
	router.Get("/{id}", handler.getMovie)

	router.Group(func(curator chi.Router) {
		curator.Use(middleware.RequireRole(sec.RoleTrustedMember))

		curator.Post("/", handler.createMovie)
		curator.Put("/{id}", handler.updateMovie)
	})

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Delete("/{id}", handler.deleteMovie)
	})

	return router
}

// # Payloads

// movieRequest is the inbound schema for create and full-replace update.
// Business rules live in [Validator]; tags only bound the payload's shape.
type movieRequest struct {
	Title         string   `json:"title" validate:"max=255"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres" validate:"max=20,dive,max=64"`
}

func (request movieRequest) toMovie(id string) *Movie {
	return &Movie{
		ID:            id,
		Title:         request.Title,
		YearOfRelease: request.YearOfRelease,
		Genres:        request.Genres,
	}
}

// MovieResponse is the outbound representation of a movie.
type MovieResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	YearOfRelease int      `json:"yearOfRelease"`
	Rating        *float64 `json:"rating"`
	UserRating    *int     `json:"userRating,omitempty"`
	Genres        []string `json:"genres"`
}

func toResponse(movie *Movie) MovieResponse {
	genres := movie.Genres
	if genres == nil {
		genres = []string{}
	}

	return MovieResponse{
		ID:            movie.ID,
		Title:         movie.Title,
		Slug:          movie.Slug(),
		YearOfRelease: movie.YearOfRelease,
		Rating:        movie.Rating,
		UserRating:    movie.UserRating,
		Genres:        genres,
	}
}

// # Discovery Endpoints

/*
GET /api/movies.

Request:
  - title: string (case-insensitive substring)
  - year: int (exact release year)
  - sortBy: string (title, yearofrelease; prefix '-' for descending)
  - page: int (default 1)
  - pageSize: int (default 10, max 25)

Response:
  - 200: []MovieResponse with pagination meta
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) listMovies(writer http.ResponseWriter, request *http.Request) {
	year, err := requestutil.OptionalInt(request, "year")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)

	options, err := BuildOptions(ListParams{
		Title:         request.URL.Query().Get("title"),
		YearOfRelease: year,
		SortBy:        request.URL.Query().Get("sortBy"),
		Page:          page.Page,
		PageSize:      page.PageSize,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	options = options.WithUser(ctxutil.ViewerID(request.Context()))

	movies, total, err := handler.service.List(request.Context(), options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, slice.Map(movies, toResponse), pagination.NewMeta(options.Page, options.PageSize, total))
}

/*
GET /api/movies/{id}.

Description: {id} is either the movie's UUID or its slug.

Response:
  - 200: MovieResponse
  - 404: NOT_FOUND
*/
func (handler *Handler) getMovie(writer http.ResponseWriter, request *http.Request) {
	movie, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"), ctxutil.ViewerID(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, toResponse(movie))
}

// # Mutation Endpoints

/*
POST /api/movies.

Response:
  - 201: MovieResponse, Location header set
  - 400: VALIDATION_ERROR (including an existing slug)
*/
func (handler *Handler) createMovie(writer http.ResponseWriter, request *http.Request) {
	var payload movieRequest
	if err := decode(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie, err := handler.service.Create(request.Context(), payload.toMovie(""))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "/api/movies/"+movie.ID, toResponse(movie))
}

/*
PUT /api/movies/{id}.

Description: Replaces title, year and genres.

Response:
  - 200: MovieResponse with current ratings
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
*/
func (handler *Handler) updateMovie(writer http.ResponseWriter, request *http.Request) {
	var payload movieRequest
	if err := decode(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie, err := handler.service.Update(request.Context(), payload.toMovie(requestutil.Param(request, "id")), ctxutil.ViewerID(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, toResponse(movie))
}

/*
DELETE /api/movies/{id}.

Response:
  - 204: Deleted
  - 404: NOT_FOUND
*/
func (handler *Handler) deleteMovie(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Helpers

func decode(writer http.ResponseWriter, request *http.Request, payload *movieRequest) error {
	if err := requestutil.DecodeJSON(writer, request, payload); err != nil {
		return err
	}
	return validate.Struct(payload)
}
